// Package alerts runs the SSD countdown and profit target checks and
// delivers their notifications.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/notifier"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultAlertDays are the countdown days on which an SSD reminder is sent.
var DefaultAlertDays = []int{30, 7, 1}

// Store is the subset of the property store the checks need.
type Store interface {
	PropertiesInSSDWindow(ctx context.Context, asOf time.Time) ([]domain.Property, error)
	PropertiesPendingProfitAlert(ctx context.Context) ([]domain.Property, error)
	MarkProfitAlertSent(ctx context.Context, id int64) error
	TelegramSettings(ctx context.Context) (domain.TelegramSettings, error)
}

// Report summarizes one check run.
type Report struct {
	Checked int      `json:"checked"`
	Sent    int      `json:"sent"`
	Errors  []string `json:"errors"`
}

// Checker evaluates stored properties and sends due alerts.
type Checker struct {
	store  Store
	sender notifier.Sender
	logger *zap.Logger

	// Fallback is used when no Telegram settings are stored.
	Fallback  domain.TelegramSettings
	AlertDays []int
	Clock     func() time.Time
}

// NewChecker creates a checker with the default alert days and wall clock.
func NewChecker(store Store, sender notifier.Sender, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		store:     store,
		sender:    sender,
		logger:    logger,
		AlertDays: DefaultAlertDays,
		Clock:     time.Now,
	}
}

func (c *Checker) today() time.Time {
	if c.Clock == nil {
		return dateutil.DateOnly(time.Now())
	}
	return dateutil.DateOnly(c.Clock())
}

// settings resolves the delivery settings. ok is false when alerts cannot be sent.
func (c *Checker) settings(ctx context.Context) (domain.TelegramSettings, bool, error) {
	stored, err := c.store.TelegramSettings(ctx)
	if err != nil {
		return domain.TelegramSettings{}, false, fmt.Errorf("load telegram settings: %w", err)
	}
	settings := stored
	if stored.BotToken == "" && stored.ChatID == "" {
		settings = c.Fallback
	}
	return settings, settings.Configured(), nil
}

func (c *Checker) isAlertDay(days int) bool {
	for _, d := range c.AlertDays {
		if d == days {
			return true
		}
	}
	return false
}

// RunSSDCheck notifies for every property whose SSD-free date is an alert
// day away, or is today.
func (c *Checker) RunSSDCheck(ctx context.Context) (*Report, error) {
	settings, ok, err := c.settings(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Errors: []string{}}
	if !ok {
		c.logger.Info("ssd check skipped: telegram alerts not configured")
		return report, nil
	}

	asOf := c.today()
	properties, err := c.store.PropertiesInSSDWindow(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	report.Checked = len(properties)

	for _, p := range properties {
		daysToFree := calculation.DaysToSSDFree(p.PurchaseDate, asOf)

		var message string
		switch {
		case c.isAlertDay(daysToFree):
			message = notifier.FormatSSDCountdown(p.Name, daysToFree, calculation.SSDFreeDate(p.PurchaseDate))
		case daysToFree == 0:
			message = notifier.FormatSSDFree(p.Name)
		default:
			continue
		}

		if err := c.sender.SendMessage(ctx, settings.BotToken, settings.ChatID, message); err != nil {
			c.logger.Warn("ssd alert failed", zap.Int64("property_id", p.ID), zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("property_id=%d: %v", p.ID, err))
			continue
		}
		report.Sent++
	}

	c.logger.Info("ssd check complete",
		zap.Int("checked", report.Checked),
		zap.Int("sent", report.Sent),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// RunProfitCheck notifies once for every property that has reached its
// profit target, then marks it so the alert does not repeat.
func (c *Checker) RunProfitCheck(ctx context.Context) (*Report, error) {
	settings, ok, err := c.settings(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Errors: []string{}}
	if !ok {
		c.logger.Info("profit check skipped: telegram alerts not configured")
		return report, nil
	}

	asOf := c.today()
	properties, err := c.store.PropertiesPendingProfitAlert(ctx)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	report.Checked = len(properties)

	for i := range properties {
		p := &properties[i]
		refis := domain.SortRefinances(p.Refinances)
		profit := calculation.ProfitPercentage(p, refis, asOf)
		if profit.LessThan(p.TargetProfitPercentage) {
			continue
		}

		message := notifier.FormatProfitTarget(p.Name, profit, p.TargetProfitPercentage, p.EffectiveCurrentValue())
		if err := c.sender.SendMessage(ctx, settings.BotToken, settings.ChatID, message); err != nil {
			c.logger.Warn("profit alert failed", zap.Int64("property_id", p.ID), zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("property_id=%d: %v", p.ID, err))
			continue
		}
		if err := c.store.MarkProfitAlertSent(ctx, p.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("property_id=%d: %v", p.ID, err))
			continue
		}
		report.Sent++
	}

	c.logger.Info("profit check complete",
		zap.Int("checked", report.Checked),
		zap.Int("sent", report.Sent),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}
