// internal/service/settings_service.go
package service

import (
	"context"
	"fmt"

	"transferbook/internal/domain"
	"transferbook/internal/repository"
	"transferbook/internal/util"
	"transferbook/pkg/db"

	"github.com/shopspring/decimal"
)

// SettingsUpdate carries the new values for the system settings row together
// with the version the caller last read. A stale version is rejected so two
// admins cannot silently overwrite each other.
type SettingsUpdate struct {
	ExchangeRate      decimal.Decimal
	MainBalanceGNF    decimal.Decimal
	FeePercent        decimal.Decimal
	DebtThresholdFCFA decimal.Decimal
	Version           int64
}

// SettingsService manages the singleton system settings row.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, actorID int64, update SettingsUpdate) (*domain.Settings, error)
}

// settingsService implements the SettingsService interface.
type settingsService struct {
	dbBeginner   db.DBTxBeginner
	dbExecutor   repository.DBExecutor
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) SettingsService {
	return &settingsService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

// Get retrieves the current settings snapshot.
func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Update writes new settings guarded by the optimistic version check.
func (s *settingsService) Update(ctx context.Context, actorID int64, update SettingsUpdate) (*domain.Settings, error) {
	if update.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("update settings: exchange rate must be positive: %w", util.ErrInvalidInput)
	}
	if update.FeePercent.IsNegative() || update.FeePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("update settings: fee percent must be between 0 and 100: %w", util.ErrInvalidInput)
	}
	if update.MainBalanceGNF.IsNegative() || update.DebtThresholdFCFA.IsNegative() {
		return nil, fmt.Errorf("update settings: balances and thresholds must not be negative: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update settings: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update settings: transaction controller does not implement DBExecutor")
	}

	if _, err := requireAdmin(ctx, txExecutor, s.userRepo, actorID); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	settings, err := s.settingsRepo.Get(ctx, txExecutor)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	if settings.Version != update.Version {
		return nil, fmt.Errorf("update settings: version %d is stale: %w", update.Version, util.ErrSettingsConflict)
	}

	settings.ExchangeRate = update.ExchangeRate
	settings.MainBalanceGNF = update.MainBalanceGNF
	settings.FeePercent = update.FeePercent
	settings.DebtThresholdFCFA = update.DebtThresholdFCFA
	if err := s.settingsRepo.Update(ctx, txExecutor, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update settings: failed to commit transaction: %w", err)
	}
	return settings, nil
}
