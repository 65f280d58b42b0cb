// Package forms provides huh-based form components for the TUI.
package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/user/clip-trimmer/tui/styles"
)

// NewConfirmDiscardForm creates a huh confirm form asking whether to throw away
// an edited selection. The result pointer is bound to the confirm field value.
func NewConfirmDiscardForm(discard *bool, p styles.Palette) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard selection?").
				Description("The crop markers were moved. Leaving crop mode drops the selection.").
				Affirmative("Yes, discard").
				Negative("No, keep editing").
				Value(discard),
		),
	).
		WithTheme(Theme(p)).
		WithShowHelp(false)
}
