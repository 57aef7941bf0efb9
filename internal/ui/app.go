package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/shopper/internal/controller"
	"github.com/abelbrown/shopper/internal/otel"
	"github.com/abelbrown/shopper/internal/render"
)

// Search form fields, in tab order. fieldChat is only reachable while the
// chat panel is open.
const (
	fieldQuery = iota
	fieldMin
	fieldMax
	fieldNotes
	fieldChat
)

const chatPanelHeight = 10

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the backend. Network work happens in the
// commands the controller returns.
type App struct {
	ctrl   *controller.Controller
	ring   *otel.RingBuffer
	events *otel.Logger

	inputs    []textinput.Model
	chatInput textinput.Model
	focus     int

	results viewport.Model
	spin    spinner.Model
	help    help.Model
	keys    keyMap
	term    *render.Terminal
	anim    scoreAnimation

	width     int
	height    int
	ready     bool
	showDebug bool
}

// Option configures an App.
type Option func(*App)

// WithRingBuffer sets the ring shown by the debug overlay. Without it the
// ring attached to the event logger is used.
func WithRingBuffer(ring *otel.RingBuffer) Option {
	return func(a *App) { a.ring = ring }
}

// WithEvents attaches a diagnostic event logger.
func WithEvents(l *otel.Logger) Option {
	return func(a *App) { a.events = l }
}

// NewApp creates an App driving ctrl.
func NewApp(ctrl *controller.Controller, opts ...Option) App {
	a := App{
		ctrl:      ctrl,
		inputs:    newSearchInputs(),
		chatInput: newInput("Ask about this pick…", 500),
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(StatusBusy)),
		help:      help.New(),
		keys:      defaultKeyMap(),
		term:      render.NewTerminal(80),
		anim:      newScoreAnimation(),
		results:   viewport.New(80, 10),
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.ring == nil {
		a.ring = a.events.Ring()
	}
	a.inputs[fieldQuery].Focus()
	return a
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

func newSearchInputs() []textinput.Model {
	return []textinput.Model{
		fieldQuery: newInput("wireless headphones", 200),
		fieldMin:   newInput("min", 12),
		fieldMax:   newInput("max", 12),
		fieldNotes: newInput("anything the recommender should know", 300),
	}
}

// Init starts the cursor blink.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.term.SetWidth(msg.Width)
		a.help.Width = msg.Width
		a.layout()
		return a, nil

	case controller.SearchCompleted:
		cmd := a.ctrl.ApplySearch(msg)
		var anim tea.Cmd
		if v, ok := a.ctrl.View(); ok && !v.Empty && msg.Err == nil && msg.Response != nil {
			anim = a.anim.Start(v.Cards)
			a.results.GotoTop()
		}
		a.layout()
		return a, tea.Batch(cmd, anim)

	case controller.HintDue:
		a.ctrl.ApplyHint(msg)
		a.layout()
		return a, nil

	case controller.ChatCompleted:
		a.ctrl.ApplyChat(msg)
		a.layout()
		return a, nil

	case controller.FocusQuery:
		return a, a.setFocus(fieldQuery)

	case frameMsg:
		if msg.gen != a.anim.gen {
			return a, nil
		}
		settled := a.anim.Step()
		a.refreshResults()
		if settled {
			return a, nil
		}
		return a, nextFrame(msg.gen)

	case spinner.TickMsg:
		if !a.ctrl.Searching() && !a.ctrl.Chat().Sending {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a.updateFocused(msg)
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	}

	if a.showDebug {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Chat):
		a.ctrl.ToggleChat()
		a.layout()
		if a.ctrl.ChatOpen() {
			return a, a.setFocus(fieldChat)
		}
		return a, a.setFocus(fieldQuery)

	case key.Matches(msg, a.keys.Close):
		if a.ctrl.ChatOpen() {
			a.ctrl.CloseChat()
			a.layout()
			return a, a.setFocus(fieldQuery)
		}
		if a.ctrl.HintVisible() {
			a.ctrl.DismissHint()
			a.layout()
		}
		return a, nil

	case key.Matches(msg, a.keys.NextField):
		return a, a.setFocus((a.focus + 1) % a.fieldCount())

	case key.Matches(msg, a.keys.PrevField):
		return a, a.setFocus((a.focus + a.fieldCount() - 1) % a.fieldCount())

	case key.Matches(msg, a.keys.PageUp):
		a.results.PageUp()
		return a, nil

	case key.Matches(msg, a.keys.PageDown):
		a.results.PageDown()
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		if a.focus == fieldChat {
			return a.sendChat()
		}
		return a.submitSearch()
	}

	return a.updateFocused(msg)
}

func (a App) submitSearch() (tea.Model, tea.Cmd) {
	// the control is disabled while a search is running
	if a.ctrl.Searching() {
		return a, nil
	}
	cmd := a.ctrl.HandleSearch(controller.SearchForm{
		Query:    a.inputs[fieldQuery].Value(),
		MinPrice: a.inputs[fieldMin].Value(),
		MaxPrice: a.inputs[fieldMax].Value(),
		Notes:    a.inputs[fieldNotes].Value(),
	})
	a.layout()
	if !a.ctrl.Searching() {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.spin.Tick)
}

func (a App) sendChat() (tea.Model, tea.Cmd) {
	cmd := a.ctrl.SendChat(a.chatInput.Value())
	if cmd == nil {
		return a, nil
	}
	a.chatInput.Reset()
	a.layout()
	return a, tea.Batch(cmd, a.spin.Tick)
}

// updateFocused forwards msg to the focused input.
func (a App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.focus == fieldChat {
		a.chatInput, cmd = a.chatInput.Update(msg)
		return a, cmd
	}
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	return a, cmd
}

func (a App) fieldCount() int {
	if a.ctrl.ChatOpen() {
		return fieldChat + 1
	}
	return fieldChat
}

// setFocus moves focus to field i, blurring everything else.
func (a *App) setFocus(i int) tea.Cmd {
	if i == fieldChat && !a.ctrl.ChatOpen() {
		i = fieldQuery
	}
	a.focus = i
	for j := range a.inputs {
		a.inputs[j].Blur()
	}
	a.chatInput.Blur()
	if i == fieldChat {
		return a.chatInput.Focus()
	}
	return a.inputs[i].Focus()
}

// layout sizes the results viewport to the space left by the other panels
// and re-renders its content.
func (a *App) layout() {
	if !a.ready {
		a.refreshResults()
		return
	}
	used := lipglossHeight(a.headerView()) + lipglossHeight(a.footerView())
	h := a.height - used
	if h < 3 {
		h = 3
	}
	a.results.Width = a.width
	a.results.Height = h
	a.refreshResults()
}

func (a *App) refreshResults() {
	v, ok := a.ctrl.View()
	if !ok {
		a.results.SetContent(HelpStyle.Render("Results appear here."))
		return
	}
	a.results.SetContent(a.term.Render(v, a.anim.Percents()))
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showDebug {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}
	return a.headerView() + "\n" + a.results.View() + "\n" + a.footerView()
}

// Focus returns the focused field index (for testing).
func (a App) Focus() int {
	return a.focus
}
