// internal/repository/settings_repo.go
package repository

import (
	"context"

	"transferbook/internal/domain"

	"github.com/shopspring/decimal"
)

// SettingsRepository defines the interface for the singleton settings row.
type SettingsRepository interface {
	// Get retrieves the current settings snapshot.
	Get(ctx context.Context, q DBExecutor) (*domain.Settings, error)
	// Update writes the settings row guarded by its version: the update only
	// applies if the stored version still matches settings.Version, and bumps
	// the version on success. A stale version yields util.ErrSettingsConflict.
	Update(ctx context.Context, q DBExecutor, settings *domain.Settings) error
	// AdjustMainBalance adds delta (possibly negative) to the main GNF float
	// and bumps the version, so settings snapshots read before the adjustment
	// fail their Update version check instead of overwriting the new balance.
	AdjustMainBalance(ctx context.Context, q DBExecutor, delta decimal.Decimal) error
}
