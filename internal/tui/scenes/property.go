package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/tui/components"
	"github.com/rgehrsitz/sgprop/internal/tui/tuimsg"
	"github.com/rgehrsitz/sgprop/internal/tui/tuistyles"
)

// Appreciation slider range, in percent per year
var (
	AppreciationMin  = decimal.NewFromInt(-5)
	AppreciationMax  = decimal.NewFromInt(10)
	AppreciationStep = decimal.NewFromFloat(0.5)
)

// PropertyModel shows one property's metrics with an appreciation slider
// driving the projected scenarios
type PropertyModel struct {
	summary *domain.PropertySummary
	slider  *components.ParameterSlider
	width   int
	height  int
}

// NewPropertyModel creates a new property scene model
func NewPropertyModel() *PropertyModel {
	return &PropertyModel{
		slider: components.NewParameterSlider("Appreciation", decimal.Zero, AppreciationMin, AppreciationMax, AppreciationStep).
			WithUnit("% p.a.").
			WithDescription("Drives the projected scenarios and value chart").
			SetFocused(true),
	}
}

// SetSummary shows a property summary and moves the slider to its rate
func (m *PropertyModel) SetSummary(summary *domain.PropertySummary) {
	m.summary = summary
	if summary != nil {
		m.slider.SetValue(summary.AppreciationRate)
	}
}

// Summary returns the property summary on screen
func (m *PropertyModel) Summary() *domain.PropertySummary {
	return m.summary
}

// Appreciation returns the slider's current rate
func (m *PropertyModel) Appreciation() decimal.Decimal {
	return m.slider.Value
}

// SetSize updates the scene dimensions
func (m *PropertyModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles slider keys; a changed rate asks the root model to recalculate
func (m *PropertyModel) Update(msg tea.Msg) (*PropertyModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.summary == nil {
		return m, nil
	}

	changed := false
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right", "l", "+"))):
		changed = m.slider.Increment()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "h", "-"))):
		changed = m.slider.Decrement()
	}
	if !changed {
		return m, nil
	}

	rate := m.slider.Value
	return m, func() tea.Msg {
		return tuimsg.AppreciationChangedMsg{Rate: rate}
	}
}

// View renders the property detail
func (m *PropertyModel) View() string {
	if m.summary == nil {
		return "No property selected.\n\nPress ESC to return to the portfolio."
	}
	s := m.summary
	p := s.Property

	header := tuistyles.TitleStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.Type)) + "\n" +
		tuistyles.SubtitleStyle.Render(p.Address)

	cards := []*components.MetricCard{
		components.NewMoneyCard("Current value", s.EffectiveValue),
		components.NewMoneyCard("Total cost", s.TotalCost),
		components.NewMoneyCard("Net profit", s.NetProfit).
			WithSignedTrend(s.NetProfit, "ROI "+s.ROI.StringFixed(2)+"%"),
		components.NewMetricCard("Annualized return", s.AnnualizedReturn.StringFixed(2)+"%"),
		components.NewMoneyCard("Break-even price", s.BreakEvenPrice),
		components.NewMoneyCard("SSD if sold today", s.SSDPayable),
	}
	if s.AnnualRental.IsPositive() {
		cards = append(cards, components.NewMetricCard("Net yield", s.NetYield.StringFixed(2)+"%").
			WithDescription("gross "+s.GrossYield.StringFixed(2)+"%"))
	}
	if p.HasTarget() {
		cards = append(cards, components.NewMoneyCard("Target sale price", s.TargetSalePrice).
			WithDescription(p.TargetProfitPercentage.StringFixed(1)+"% target"))
	}

	ssd := components.NewSSDProgress(s.SSDCountdown, s.SSDFreeDate).Render()

	var scenarios strings.Builder
	scenarios.WriteString(m.slider.Render())
	scenarios.WriteString("\n\n")
	scenarios.WriteString(components.ScenarioRow(components.ScenarioCards(s.Scenarios, "")))
	scenarios.WriteString("\n")
	scenarios.WriteString(tuistyles.InfoStyle.Render(s.Recommendation.Message))
	scenarios.WriteString("\n")
	scenarios.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("(recommendation uses a fixed %s%% appreciation)",
		calculation.RecommendationAppreciationRate.String())))

	chart := components.NewValueChart("Value projection", s.ValueProjection).WithWidth(30).Render()

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		components.MetricGrid(cards, 4),
		"",
		ssd,
		"",
		scenarios.String(),
		"",
		chart,
	)
}
