package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/tui/tuistyles"
)

const ssdPeriodDays = 1095

// SSDProgress shows how far a property is through the three-year SSD period
type SSDProgress struct {
	Countdown domain.SSDCountdown
	FreeDate  time.Time
	Width     int
}

// NewSSDProgress creates a progress bar for an SSD countdown
func NewSSDProgress(countdown domain.SSDCountdown, freeDate time.Time) *SSDProgress {
	return &SSDProgress{
		Countdown: countdown,
		FreeDate:  freeDate,
		Width:     36,
	}
}

// WithWidth sets the bar width
func (p *SSDProgress) WithWidth(width int) *SSDProgress {
	p.Width = width
	return p
}

// Fraction returns the share of the SSD period already elapsed, 0 to 1
func (p *SSDProgress) Fraction() float64 {
	if p.Countdown.IsExempt {
		return 1
	}
	f := float64(p.Countdown.DaysSincePurchase) / ssdPeriodDays
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Render returns the bar with tier marks at each anniversary and a status line
func (p *SSDProgress) Render() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).
		Foreground(tuistyles.ColorForeground).
		Render("Seller's Stamp Duty"))
	content.WriteString("\n")

	filled := int(float64(p.Width) * p.Fraction())
	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	if !p.Countdown.IsExempt {
		barStyle = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)
	}
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	content.WriteString("[")
	for i := 0; i < p.Width; i++ {
		cell := "░"
		style := emptyStyle
		if i < filled {
			cell = "█"
			style = barStyle
		}
		if p.isTierMark(i) {
			cell = "│"
		}
		content.WriteString(style.Render(cell))
	}
	content.WriteString("]\n")

	content.WriteString(tuistyles.SubtitleStyle.Render(p.status()))
	return content.String()
}

// isTierMark reports whether cell i sits on the first or second anniversary
func (p *SSDProgress) isTierMark(i int) bool {
	if p.Width < 3 {
		return false
	}
	return i == p.Width/3 || i == 2*p.Width/3
}

func (p *SSDProgress) status() string {
	free := p.FreeDate.Format("02/01/2006")
	if p.Countdown.IsExempt {
		return fmt.Sprintf("SSD-free since %s", free)
	}
	return fmt.Sprintf("%d%% now, %d%% in %d days • SSD-free on %s",
		p.Countdown.CurrentRatePercent, p.Countdown.NextRatePercent, p.Countdown.DaysToNextTier, free)
}
