// internal/repository/postgres/settings_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"transferbook/internal/domain"
	"transferbook/internal/repository"
	"transferbook/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SettingsRepository implements repository.SettingsRepository for PostgreSQL.
// The settings table holds exactly one row.
type SettingsRepository struct {
	// Methods receive a DBExecutor directly, so no connection is stored here.
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) repository.SettingsRepository {
	return &SettingsRepository{}
}

// Get retrieves the current settings snapshot.
func (r *SettingsRepository) Get(ctx context.Context, q repository.DBExecutor) (*domain.Settings, error) {
	var settings domain.Settings
	query := `SELECT id, exchange_rate, main_balance_gnf, fee_percent, debt_threshold_fcfa, version, updated_at
              FROM settings LIMIT 1`
	err := q.GetContext(ctx, &settings, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Update writes the settings row guarded by its version. A stale version
// matches zero rows and surfaces as ErrSettingsConflict.
func (r *SettingsRepository) Update(ctx context.Context, q repository.DBExecutor, settings *domain.Settings) error {
	query := `
		UPDATE settings
		SET exchange_rate = $1, main_balance_gnf = $2, fee_percent = $3, debt_threshold_fcfa = $4,
		    version = version + 1, updated_at = $5
		WHERE id = $6 AND version = $7`
	result, err := q.ExecContext(ctx, query,
		settings.ExchangeRate,
		settings.MainBalanceGNF,
		settings.FeePercent,
		settings.DebtThresholdFCFA,
		time.Now().UTC(),
		settings.ID,
		settings.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating settings: %w", err)
	}
	if rowsAffected == 0 {
		return util.ErrSettingsConflict
	}
	settings.Version++
	return nil
}

// AdjustMainBalance adds delta (possibly negative) to the main GNF float.
// The version is bumped so a settings snapshot read before the adjustment can
// no longer be written back through Update; without the bump a stale update
// would silently restore the pre-adjustment balance.
func (r *SettingsRepository) AdjustMainBalance(ctx context.Context, q repository.DBExecutor, delta decimal.Decimal) error {
	result, err := q.ExecContext(ctx,
		`UPDATE settings SET main_balance_gnf = main_balance_gnf + $1, version = version + 1, updated_at = $2`,
		delta, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to adjust main balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after adjusting main balance: %w", err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
