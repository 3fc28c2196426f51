// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// DownloadsKeyMap holds the bindings of the download progress view.
type DownloadsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Cancel    key.Binding
	CancelAll key.Binding
	Help      key.Binding
}

// Downloads is the keymap of the download progress view.
var Downloads = DownloadsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "cancel selected"),
	),
	CancelAll: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel all"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
}

// ShortHelp implements help.KeyMap.
func (k DownloadsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.CancelAll, k.Help}
}

// FullHelp implements help.KeyMap.
func (k DownloadsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Cancel, k.CancelAll},
		{k.Help},
	}
}
