package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	esc        key.Binding
	quit       key.Binding
	newSession key.Binding
	sessions   key.Binding
	cancel     key.Binding
	copyReply  key.Binding
	delete     key.Binding
}

var keys = keyMap{
	up:         key.NewBinding(key.WithKeys("up", "k")),
	down:       key.NewBinding(key.WithKeys("down", "j")),
	enter:      key.NewBinding(key.WithKeys("enter")),
	esc:        key.NewBinding(key.WithKeys("esc")),
	quit:       key.NewBinding(key.WithKeys("ctrl+c")),
	newSession: key.NewBinding(key.WithKeys("ctrl+n")),
	sessions:   key.NewBinding(key.WithKeys("ctrl+l")),
	cancel:     key.NewBinding(key.WithKeys("ctrl+g")),
	copyReply:  key.NewBinding(key.WithKeys("ctrl+y")),
	delete:     key.NewBinding(key.WithKeys("ctrl+d")),
}
