package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	AllChains    key.Binding
	NextChain    key.Binding
	PrevChain    key.Binding
	NextExchange key.Binding
	PrevExchange key.Binding
	ToggleCex    key.Binding
	Back         key.Binding
	Forward      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		AllChains: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all chains"),
		),
		NextChain: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next chain"),
		),
		PrevChain: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev chain"),
		),
		NextExchange: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next cex"),
		),
		PrevExchange: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev cex"),
		),
		ToggleCex: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle cex mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "forward"),
		),
	}
}
