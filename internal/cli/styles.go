package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackmy/internal/models"
)

var (
	HeadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	categoryColors = map[models.Category]lipgloss.Color{
		models.CategoryHealth:      lipgloss.Color("42"),
		models.CategoryFitness:     lipgloss.Color("202"),
		models.CategoryLearning:    lipgloss.Color("33"),
		models.CategoryFamily:      lipgloss.Color("205"),
		models.CategoryWork:        lipgloss.Color("99"),
		models.CategoryMindfulness: lipgloss.Color("44"),
		models.CategoryOther:       lipgloss.Color("245"),
	}
)

// CategoryLabel renders a category name in its color.
func CategoryLabel(c models.Category) string {
	color, ok := categoryColors[c]
	if !ok {
		color = categoryColors[models.CategoryOther]
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(c))
}

// Check renders a completion mark.
func Check(done bool) string {
	if done {
		return SuccessStyle.Render("✓")
	}
	return MutedStyle.Render("·")
}

// Percent formats a 0..1 rate.
func Percent(rate float64) string {
	return fmt.Sprintf("%3.0f%%", rate*100)
}

// Bar draws a fixed-width bar for a 0..1 rate.
func Bar(rate float64, width int) string {
	filled := int(rate*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return SuccessStyle.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", width-filled))
}
