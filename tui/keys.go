package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/user/clip-trimmer/tui/components"
)

// keyMap holds every binding the widget reacts to.
type keyMap struct {
	Crop      key.Binding
	Cancel    key.Binding
	Apply     key.Binding
	Select    key.Binding
	Back      key.Binding
	Forward   key.Binding
	StepDown  key.Binding
	StepUp    key.Binding
	GoMarker  key.Binding
	PlayPause key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Crop: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "crop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel crop"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Select: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch marker"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "back one step"),
		),
		Forward: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "forward one step"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "smaller step"),
		),
		StepUp: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "larger step"),
		),
		GoMarker: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "seek to marker"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "play/pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// setCropping enables the bindings that only make sense with markers shown.
func (k *keyMap) setCropping(cropping bool) {
	k.Crop.SetEnabled(!cropping)
	k.Cancel.SetEnabled(cropping)
	k.Apply.SetEnabled(cropping)
	k.Select.SetEnabled(cropping)
	k.GoMarker.SetEnabled(cropping)
	if cropping {
		k.Back.SetHelp("h/←", "nudge marker back")
		k.Forward.SetHelp("l/→", "nudge marker forward")
	} else {
		k.Back.SetHelp("h/←", "back one step")
		k.Forward.SetHelp("l/→", "forward one step")
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Crop, k.Apply, k.Cancel, k.Select, k.Back, k.Forward, k.PlayPause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	groups := k.groups()
	out := make([][]key.Binding, len(groups))
	for i, g := range groups {
		out[i] = g.Bindings
	}
	return out
}

func (k keyMap) groups() []components.HelpGroup {
	return []components.HelpGroup{
		{Title: "Crop", Bindings: []key.Binding{k.Crop, k.Apply, k.Cancel, k.Select, k.GoMarker}},
		{Title: "Playback", Bindings: []key.Binding{k.PlayPause, k.Back, k.Forward, k.StepDown, k.StepUp}},
		{Title: "General", Bindings: []key.Binding{k.Help, k.Quit}},
	}
}
