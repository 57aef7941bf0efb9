package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Chat      key.Binding
	Close     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Debug     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search/send")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Chat:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "chat")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close chat")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Debug:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.Chat, k.PageDown, k.Debug, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextField, k.PrevField},
		{k.Chat, k.Close},
		{k.PageUp, k.PageDown, k.Debug, k.Quit},
	}
}
