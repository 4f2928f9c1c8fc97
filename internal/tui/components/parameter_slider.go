package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sgprop/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider displays an adjustable decimal parameter with a visual bar.
// Values move in exact Step increments so repeated presses never drift.
type ParameterSlider struct {
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Unit        string // e.g. "%", " yrs"
	Places      int32  // decimals shown
	Width       int    // bar width in cells
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider; value is clamped into [min, max]
func NewParameterSlider(label string, value, min, max, step decimal.Decimal) *ParameterSlider {
	p := &ParameterSlider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Places: 1,
		Width:  30,
	}
	p.SetValue(value)
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithPlaces sets the number of decimals displayed
func (p *ParameterSlider) WithPlaces(places int32) *ParameterSlider {
	p.Places = places
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a description/help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Increment moves one step up, stopping at Max. Reports whether the value changed.
func (p *ParameterSlider) Increment() bool {
	return p.move(p.Step)
}

// Decrement moves one step down, stopping at Min. Reports whether the value changed.
func (p *ParameterSlider) Decrement() bool {
	return p.move(p.Step.Neg())
}

func (p *ParameterSlider) move(delta decimal.Decimal) bool {
	before := p.Value
	p.SetValue(p.Value.Add(delta))
	return !p.Value.Equal(before)
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value decimal.Decimal) {
	p.Value = decimal.Max(p.Min, decimal.Min(p.Max, value))
}

// Fraction returns the position of the value within the range, 0 to 1
func (p *ParameterSlider) Fraction() float64 {
	span := p.Max.Sub(p.Min)
	if !span.IsPositive() {
		return 0
	}
	return p.Value.Sub(p.Min).Div(span).InexactFloat64()
}

// ValueString renders the value with its unit
func (p *ParameterSlider) ValueString() string {
	return p.format(p.Value)
}

func (p *ParameterSlider) format(v decimal.Decimal) string {
	return v.StringFixed(p.Places) + p.Unit
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.ValueString()))
	content.WriteString("\n")

	content.WriteString(p.renderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(p.format(p.Min) + "  ─  " + p.format(p.Max)))

	if p.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true).
			Render(p.Description))
	}

	if p.IsFocused {
		content.WriteString("\n")
		content.WriteString(tuistyles.InfoStyle.Render("← → to adjust"))
	}

	return content.String()
}

// renderBar draws the track with the thumb at the value position
func (p *ParameterSlider) renderBar() string {
	if p.Width < 1 {
		return "[]"
	}
	thumb := int(math.Round(float64(p.Width-1) * p.Fraction()))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if thumb > 0 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", thumb)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if rest := p.Width - thumb - 1; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
