// Package host connects the trimming widget to the process that embeds it.
// The host delivers Args once and receives a single trim.Result when the user
// applies a selection.
package host

// Args is everything the host supplies when the widget is mounted.
type Args struct {
	// VideoURL is the playable media reference handed to the player.
	VideoURL string `json:"video_url" yaml:"video_url"`
	// Height is the rendering height hint in rows.
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
	// WaveformData holds optional pre-rendered amplitudes in [0, 1].
	WaveformData []float64 `json:"waveform_data,omitempty" yaml:"waveform_data,omitempty"`
	// Thumbnails holds optional pre-rendered frame references.
	Thumbnails []string `json:"thumbnails,omitempty" yaml:"thumbnails,omitempty"`
	// Theme overrides the default palette.
	Theme *Theme `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Theme is the host's visual theme.
type Theme struct {
	Base                     string `json:"base" yaml:"base"`
	PrimaryColor             string `json:"primaryColor" yaml:"primary_color"`
	BackgroundColor          string `json:"backgroundColor" yaml:"background_color"`
	SecondaryBackgroundColor string `json:"secondaryBackgroundColor" yaml:"secondary_background_color"`
	TextColor                string `json:"textColor" yaml:"text_color"`
	Font                     string `json:"font" yaml:"font"`
}

// DefaultTheme is the light theme used when the host sends none.
func DefaultTheme() Theme {
	return Theme{
		Base:                     "light",
		PrimaryColor:             "#FF4B4B",
		BackgroundColor:          "#FFFFFF",
		SecondaryBackgroundColor: "#F0F2F6",
		TextColor:                "#31333F",
		Font:                     "sans serif",
	}
}

// ThemeOrDefault returns the supplied theme with empty fields filled from DefaultTheme.
func (a Args) ThemeOrDefault() Theme {
	def := DefaultTheme()
	if a.Theme == nil {
		return def
	}
	t := *a.Theme
	if t.Base == "" {
		t.Base = def.Base
	}
	if t.PrimaryColor == "" {
		t.PrimaryColor = def.PrimaryColor
	}
	if t.BackgroundColor == "" {
		t.BackgroundColor = def.BackgroundColor
	}
	if t.SecondaryBackgroundColor == "" {
		t.SecondaryBackgroundColor = def.SecondaryBackgroundColor
	}
	if t.TextColor == "" {
		t.TextColor = def.TextColor
	}
	if t.Font == "" {
		t.Font = def.Font
	}
	return t
}
