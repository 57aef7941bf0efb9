package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
)

// TitleStyle for the app name in the header.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// LabelStyle for form field labels.
var LabelStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Width(8)

// FocusedLabelStyle for the label of the focused field.
var FocusedLabelStyle = LabelStyle.
	Foreground(colorHighlight).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Status line styles by tone.
var (
	StatusInfo    = lipgloss.NewStyle().Foreground(colorSecondary)
	StatusBusy    = lipgloss.NewStyle().Foreground(colorHighlight)
	StatusSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	StatusError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// ChatPanel frames the chat widget.
var ChatPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// ChatUser style for the user's own messages.
var ChatUser = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// ChatAssistant style for assistant replies.
var ChatAssistant = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// ChatFailed style for display-only error replies.
var ChatFailed = lipgloss.NewStyle().
	Foreground(colorError).
	Italic(true)

// SendButton style for the idle send control.
var SendButton = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// SendButtonDisabled style while a message is in flight.
var SendButtonDisabled = lipgloss.NewStyle().
	Foreground(colorMuted).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// HintBubble style for the chat hint.
var HintBubble = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(colorHighlight).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorHighlight).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)
