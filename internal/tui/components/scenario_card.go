package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ScenarioCard displays one sell/hold scenario
type ScenarioCard struct {
	Scenario domain.ScenarioResult
	// VsSellNow is the proceeds difference against selling immediately
	VsSellNow decimal.Decimal
	IsBest    bool
	Width     int
}

// NewScenarioCard creates a card for a scenario
func NewScenarioCard(s domain.ScenarioResult) *ScenarioCard {
	return &ScenarioCard{
		Scenario: s,
		Width:    24,
	}
}

// SetBest marks the card as the recommended scenario
func (s *ScenarioCard) SetBest(best bool) *ScenarioCard {
	s.IsBest = best
	return s
}

// WithWidth sets the card width
func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

// Render returns the styled scenario card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render(s.Scenario.Label))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(holdText(s.Scenario.HoldMonths)))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(s.Scenario.ProjectedNetProceeds)))

	if s.Scenario.HoldMonths > 0 {
		content.WriteString("\n")
		content.WriteString(s.renderDelta())
	}
	if s.IsBest {
		content.WriteString("\n")
		content.WriteString(tuistyles.TableHighlightStyle.Render("★ recommended"))
	}

	border := tuistyles.ColorBorder
	if s.IsBest {
		border = tuistyles.ColorSuccess
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(s.Width).
		Render(content.String())
}

// RenderCompact returns a compact single-line version
func (s *ScenarioCard) RenderCompact() string {
	prefix := "  "
	style := tuistyles.UnselectedItemStyle
	if s.IsBest {
		prefix = "★ "
		style = tuistyles.TableHighlightStyle
	}
	line := fmt.Sprintf("%s%-22s %12s", prefix, s.Scenario.Label, tuistyles.FormatCurrency(s.Scenario.ProjectedNetProceeds))
	if s.Scenario.HoldMonths > 0 {
		line += " " + s.renderDelta()
	}
	return style.Render(line)
}

func (s *ScenarioCard) renderDelta() string {
	up := !s.VsSellNow.IsNegative()
	sign := ""
	if s.VsSellNow.IsPositive() {
		sign = "+"
	}
	return tuistyles.MetricTrendStyle(up).Render(
		fmt.Sprintf("%s %s%s vs now", tuistyles.TrendIndicator(up), sign, tuistyles.FormatCurrency(s.VsSellNow)))
}

// ScenarioCards builds one card per scenario, measured against the first
// (sell now) scenario and marking the recommendation's pick
func ScenarioCards(scenarios []domain.ScenarioResult, best string) []*ScenarioCard {
	cards := make([]*ScenarioCard, 0, len(scenarios))
	var baseline decimal.Decimal
	if len(scenarios) > 0 {
		baseline = scenarios[0].ProjectedNetProceeds
	}
	for _, sc := range scenarios {
		card := NewScenarioCard(sc).SetBest(sc.Label == best)
		card.VsSellNow = sc.ProjectedNetProceeds.Sub(baseline)
		cards = append(cards, card)
	}
	return cards
}

// ScenarioRow renders scenario cards side by side
func ScenarioRow(cards []*ScenarioCard) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios available")
	}
	rendered := make([]string, len(cards))
	for i, card := range cards {
		rendered[i] = card.Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func holdText(months int) string {
	switch months {
	case 0:
		return "sell today"
	case 1:
		return "in 1 month"
	default:
		return fmt.Sprintf("in %d months", months)
	}
}
