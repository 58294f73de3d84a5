package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/ui/theme"
)

// MultiChoice renders numbered answer options. Input is handled by the host
// screen; MultiChoice only reflects the outcome once Revealed is set.
type MultiChoice struct {
	Options      []string
	CorrectIndex int
	ChosenIndex  int // -1 when nothing was chosen
	Revealed     bool
}

// NewMultiChoice creates an unrevealed option list.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Reveal marks chosen as the player's pick and shows the correct option.
func (m MultiChoice) Reveal(chosen int) MultiChoice {
	m.ChosenIndex = chosen
	m.Revealed = true
	return m
}

// View renders the options, one per line, at width w.
func (m MultiChoice) View(w int) string {
	lines := make([]string, 0, len(m.Options))
	for i, opt := range m.Options {
		line := fmt.Sprintf(" %d  %s", i+1, opt)
		style := lipgloss.NewStyle().
			Width(w).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Text)

		if m.Revealed {
			switch i {
			case m.CorrectIndex:
				style = style.BorderForeground(theme.Success).Foreground(theme.Success).Bold(true)
				line += "  ✓"
			case m.ChosenIndex:
				style = style.BorderForeground(theme.Error).Foreground(theme.Error).Bold(true)
				line += "  ✗"
			default:
				style = style.Foreground(theme.TextDim)
			}
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
