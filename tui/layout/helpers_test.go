package layout

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abc", 3, "abc"},
		{"abcdef", 4, "abc…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := PadToWidth(tt.in, tt.width); got != tt.want {
			t.Errorf("PadToWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadToWidthStyled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("hello world")
	if w := lipgloss.Width(PadToWidth(styled, 5)); w != 5 {
		t.Errorf("styled width = %d, want 5", w)
	}
}

func TestSpread(t *testing.T) {
	if got := Spread("ab", "cd", 8); got != "ab    cd" {
		t.Errorf("Spread = %q", got)
	}
	if got := Spread("abcd", "efgh", 6); got != "abcd  " {
		t.Errorf("Spread overflow = %q", got)
	}
}

func TestFrame(t *testing.T) {
	out := Frame("a\nbb\nccc\ndddd", 3, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "a  " || lines[1] != "bb " {
		t.Errorf("Frame = %q", lines)
	}
}
