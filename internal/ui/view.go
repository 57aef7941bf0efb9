package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/abelbrown/shopper/internal/controller"
	"github.com/abelbrown/shopper/internal/model"
	"github.com/abelbrown/shopper/internal/render"
)

func lipglossHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}

// headerView is the title line, the search form and the status line.
func (a App) headerView() string {
	title := TitleStyle.Render("shopper")
	if v, ok := a.ctrl.View(); ok && v.Meta != "" {
		title += " " + StatusBarText.Render(v.Meta)
	}

	form := []string{
		a.field("Find", fieldQuery),
		a.field("Min $", fieldMin) + "  " + a.field("Max $", fieldMax),
		a.field("Notes", fieldNotes),
	}

	return title + "\n" + strings.Join(form, "\n") + "\n" + a.statusLine()
}

func (a App) field(label string, i int) string {
	style := LabelStyle
	if a.focus == i {
		style = FocusedLabelStyle
	}
	in := a.inputs[i]
	switch i {
	case fieldMin, fieldMax:
		in.Width = 8
	default:
		in.Width = max(a.width-LabelStyle.GetWidth()-2, 10)
	}
	return style.Render(label) + in.View()
}

func (a App) statusLine() string {
	st := a.ctrl.Status()
	var style lipgloss.Style
	switch st.Tone {
	case controller.ToneBusy:
		style = StatusBusy
	case controller.ToneSuccess:
		style = StatusSuccess
	case controller.ToneError:
		style = StatusError
	default:
		style = StatusInfo
	}
	line := style.Render(st.Text)
	if a.ctrl.Searching() {
		line = a.spin.View() + " " + line
	}
	return ansi.Truncate(line, max(a.width, 1), "…")
}

// footerView is the hint bubble, the chat panel and the help line.
func (a App) footerView() string {
	var parts []string
	if a.ctrl.HintVisible() && !a.ctrl.ChatOpen() {
		parts = append(parts, a.hintView())
	}
	if a.ctrl.ChatOpen() {
		parts = append(parts, a.chatView())
	}
	parts = append(parts, HelpStyle.Render(a.help.View(a.keys)))
	return strings.Join(parts, "\n")
}

func (a App) hintView() string {
	item := a.ctrl.Chat().CurrentItem
	text := "Questions about these picks? Press ctrl+o to chat."
	if item != "" {
		text = "Questions about " + truncateRunes(item, 40) + "? Press ctrl+o to chat."
	}
	return HintBubble.Render("💬 " + text)
}

func (a App) chatView() string {
	inner := max(a.width-ChatPanel.GetHorizontalFrameSize(), 10)
	logHeight := chatPanelHeight - ChatPanel.GetVerticalFrameSize() - 2

	st := a.ctrl.Chat()
	header := StatusBarText.Render("Chat")
	if st.CurrentItem != "" {
		header += StatusBarText.Render(" · " + truncateRunes(st.CurrentItem, inner-10))
	}

	var lines []string
	for _, e := range a.ctrl.ChatLog() {
		lines = append(lines, strings.Split(chatLine(e, inner), "\n")...)
	}
	if len(lines) == 0 {
		lines = []string{StatusBarText.Render("Ask a follow-up question about the results.")}
	}
	if len(lines) > logHeight {
		lines = lines[len(lines)-logHeight:]
	}

	send := SendButton.Render(a.ctrl.SendLabel())
	if st.Sending {
		send = a.spin.View() + " " + SendButtonDisabled.Render(a.ctrl.SendLabel())
	}
	in := a.chatInput
	in.Width = max(inner-lipgloss.Width(send)-3, 5)
	input := "› " + in.View() + " " + send

	body := header + "\n" + strings.Join(lines, "\n") + "\n" + input
	return ChatPanel.Width(a.width - ChatPanel.GetHorizontalBorderSize()).Render(body)
}

func chatLine(e controller.LogEntry, width int) string {
	content := render.Sanitize(e.Content)
	switch {
	case e.Failed:
		return ansi.Wordwrap(ChatFailed.Render("! "+content), width, " ")
	case e.Role == model.RoleUser:
		return ansi.Wordwrap(ChatUser.Render("you: ")+content, width, " ")
	default:
		return ansi.Wordwrap(ChatAssistant.Render("assistant: "+content), width, " ")
	}
}
