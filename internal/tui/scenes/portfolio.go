package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/tui/components"
	"github.com/rgehrsitz/sgprop/internal/tui/tuimsg"
	"github.com/rgehrsitz/sgprop/internal/tui/tuistyles"
)

// PortfolioModel lists the properties with portfolio totals
type PortfolioModel struct {
	summary       *domain.PortfolioSummary
	selectedIndex int
	width         int
	height        int
}

// NewPortfolioModel creates a new portfolio scene model
func NewPortfolioModel() *PortfolioModel {
	return &PortfolioModel{}
}

// SetSummary replaces the portfolio summary, keeping the selection in range
func (m *PortfolioModel) SetSummary(summary *domain.PortfolioSummary) {
	m.summary = summary
	if m.selectedIndex >= m.count() {
		m.selectedIndex = 0
	}
}

// SetSize updates the scene dimensions
func (m *PortfolioModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedIndex returns the highlighted property position
func (m *PortfolioModel) SelectedIndex() int {
	return m.selectedIndex
}

func (m *PortfolioModel) count() int {
	if m.summary == nil {
		return 0
	}
	return len(m.summary.Properties)
}

// Update handles messages for the portfolio scene
func (m *PortfolioModel) Update(msg tea.Msg) (*PortfolioModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < m.count()-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("g"))):
		m.selectedIndex = 0
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("G"))):
		m.selectedIndex = max(0, m.count()-1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		if m.count() == 0 {
			return m, nil
		}
		index := m.selectedIndex
		return m, func() tea.Msg {
			return tuimsg.PropertySelectedMsg{Index: index}
		}
	}
	return m, nil
}

// View renders the property list beside the portfolio totals
func (m *PortfolioModel) View() string {
	if m.count() == 0 {
		return "No properties in this portfolio.\n\nAdd properties to the portfolio file and reload."
	}

	left := m.renderList()
	right := m.renderOverview()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m *PortfolioModel) renderList() string {
	var rows []string
	for i, ps := range m.summary.Properties {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == m.selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-22s %-6s %12s",
			prefix, truncate(ps.Property.Name, 22), ps.Property.Type, tuistyles.FormatCurrency(ps.EffectiveValue))))
	}

	title := tuistyles.TitleStyle.MarginBottom(1).Render("Properties")
	return tuistyles.BorderStyle.Render(title + "\n" + strings.Join(rows, "\n"))
}

func (m *PortfolioModel) renderOverview() string {
	s := m.summary
	cards := []*components.MetricCard{
		components.NewMoneyCard("Total investment", s.TotalInvestment),
		components.NewMoneyCard("Current value", s.TotalCurrentValue),
		components.NewMoneyCard("Total profit", s.TotalProfit).
			WithSignedTrend(s.TotalProfit, tuistyles.FormatCurrency(s.TotalProfit)),
	}

	ps := s.Properties[m.selectedIndex]
	var detail strings.Builder
	detail.WriteString(tuistyles.TitleStyle.Render(ps.Property.Name))
	detail.WriteString("\n")
	detail.WriteString(components.NewMetricCard("ROI", ps.ROI.StringFixed(2)+"%").
		WithSignedTrend(ps.ROI, tuistyles.FormatCurrency(ps.NetProfit)).RenderCompact())
	detail.WriteString("\n")
	detail.WriteString(components.NewMoneyCard("SSD if sold today", ps.SSDPayable).RenderCompact())
	detail.WriteString("\n")
	detail.WriteString(tuistyles.InfoStyle.Render(ps.Recommendation.Message))
	detail.WriteString("\n\n")
	detail.WriteString(tuistyles.SubtitleStyle.Render("Press Enter for details"))

	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid(cards, 3),
		tuistyles.ActiveBorderStyle.Render(detail.String()),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
