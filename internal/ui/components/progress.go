package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	LabelWidth  int // pad the label so stacked bars line up
	Percent     float64
	ShowPercent bool
	Suffix      string // shown instead of the percentage when set
	Color       color.Color
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// NewScoreBar renders a 1-10 score as a colored bar with an "n/10" suffix.
func NewScoreBar(label string, score, labelWidth, width int) ProgressBar {
	return ProgressBar{
		Label:      label,
		LabelWidth: labelWidth,
		Percent:    float64(score) / 10,
		Suffix:     fmt.Sprintf("%2d/10", score),
		Color:      theme.ScoreColor(score),
		Width:      width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	suffix := p.Suffix
	if suffix == "" && p.ShowPercent {
		suffix = fmt.Sprintf("%d%%", int(p.Percent*100))
	}
	suffixWidth := 0
	if suffix != "" {
		suffixWidth = lipgloss.Width(suffix) + 2
	}

	barWidth := p.Width - labelWidth - suffixWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := theme.ProgressEmpty.
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if suffix != "" {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  " + suffix)
	}

	return result
}
