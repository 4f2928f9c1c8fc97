// Package store persists properties, refinances and alert settings.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
)

// ErrNotFound is returned when a property or refinance does not exist.
var ErrNotFound = errors.New("not found")

// PropertyStore is the persistence surface used by the CLI and alert jobs.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p *domain.Property) error
	GetProperty(ctx context.Context, id int64) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	UpdateProperty(ctx context.Context, p *domain.Property) error
	DeleteProperty(ctx context.Context, id int64) error

	AddRefinance(ctx context.Context, r *domain.Refinance) error
	ListRefinances(ctx context.Context, propertyID int64) ([]domain.Refinance, error)
	DeleteRefinance(ctx context.Context, id int64) error

	// PropertiesInSSDWindow lists properties bought within three years of asOf.
	PropertiesInSSDWindow(ctx context.Context, asOf time.Time) ([]domain.Property, error)
	// PropertiesPendingProfitAlert lists properties with a target whose alert has not fired.
	PropertiesPendingProfitAlert(ctx context.Context) ([]domain.Property, error)
	MarkProfitAlertSent(ctx context.Context, id int64) error

	TelegramSettings(ctx context.Context) (domain.TelegramSettings, error)
	SaveTelegramSettings(ctx context.Context, t domain.TelegramSettings) error

	ImportPortfolio(ctx context.Context, portfolio *domain.Portfolio) (int, error)
	Close() error
}
