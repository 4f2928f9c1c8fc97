package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/tui/tuistyles"
)

// ValueChart draws a property's value series as horizontal bars, one per year
type ValueChart struct {
	Title  string
	Points []domain.ValuePoint
	Width  int // longest bar in cells
}

// NewValueChart creates a new value chart
func NewValueChart(title string, points []domain.ValuePoint) *ValueChart {
	return &ValueChart{
		Title:  title,
		Points: points,
		Width:  40,
	}
}

// WithWidth sets the longest bar length
func (c *ValueChart) WithWidth(width int) *ValueChart {
	c.Width = width
	return c
}

// Render returns the styled chart
func (c *ValueChart) Render() string {
	if len(c.Points) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(tuistyles.TitleStyle.Render(c.Title))
		content.WriteString("\n")
	}

	peak := 0.0
	for _, p := range c.Points {
		peak = math.Max(peak, p.Value.InexactFloat64())
	}

	for _, p := range c.Points {
		length := 0
		if peak > 0 {
			length = int(math.Round(p.Value.InexactFloat64() / peak * float64(c.Width)))
		}
		if length < 1 && p.Value.IsPositive() {
			length = 1
		}
		bar := lipgloss.NewStyle().Foreground(kindColor(p.Kind)).Render(strings.Repeat("█", length))
		content.WriteString(fmt.Sprintf("%d %s %s\n", p.Year, bar, tuistyles.FormatCurrency(p.Value)))
	}

	content.WriteString(c.renderLegend())
	return content.String()
}

func (c *ValueChart) renderLegend() string {
	entries := []struct {
		kind  domain.ValuePointKind
		label string
	}{
		{domain.ValueHistorical, "purchase"},
		{domain.ValueCurrent, "current"},
		{domain.ValueProjection, "projected"},
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		swatch := lipgloss.NewStyle().Foreground(kindColor(e.kind)).Render("■")
		parts = append(parts, swatch+" "+e.label)
	}
	return tuistyles.SubtitleStyle.Render(strings.Join(parts, "  "))
}

func kindColor(kind domain.ValuePointKind) lipgloss.Color {
	switch kind {
	case domain.ValueHistorical:
		return tuistyles.ColorHistorical
	case domain.ValueCurrent:
		return tuistyles.ColorCurrent
	default:
		return tuistyles.ColorProjection
	}
}
