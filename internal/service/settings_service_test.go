// internal/service/settings_service_test.go
package service

import (
	"context"
	"testing"

	"transferbook/internal/domain"
	"transferbook/internal/util"
	"transferbook/pkg/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSettingsService() (SettingsService, ledgerMocks) {
	m := ledgerMocks{
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
		userRepo:     new(MockUserRepository),
		settingsRepo: new(MockSettingsRepository),
	}
	svc := NewSettingsService(
		m.dbBeginner,
		m.dbExecutor,
		m.userRepo,
		m.settingsRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
	)
	return svc, m
}

func validSettingsUpdate(version int64) SettingsUpdate {
	return SettingsUpdate{
		ExchangeRate:      decimal.RequireFromString("15.2"),
		MainBalanceGNF:    decimal.NewFromInt(3000000),
		FeePercent:        decimal.NewFromInt(12),
		DebtThresholdFCFA: decimal.NewFromInt(500000),
		Version:           version,
	}
}

// TestUpdateSettings tests the Update method of SettingsService.
func TestUpdateSettings(t *testing.T) {
	stored := func() *domain.Settings {
		return &domain.Settings{
			ID:                1,
			ExchangeRate:      decimal.RequireFromString("14.5"),
			MainBalanceGNF:    decimal.NewFromInt(2000000),
			FeePercent:        decimal.NewFromInt(10),
			DebtThresholdFCFA: decimal.Zero,
			Version:           3,
		}
	}

	t.Run("SuccessfulUpdate", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newSettingsService()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(stored(), nil).Once()
		m.settingsRepo.On("Update", ctx, mock.Anything, mock.AnythingOfType("*domain.Settings")).Return(nil).Once()

		settings, err := svc.Update(ctx, testAdmin.ID, validSettingsUpdate(3))

		assert.NoError(t, err)
		assert.True(t, settings.ExchangeRate.Equal(decimal.RequireFromString("15.2")))
		assert.True(t, settings.FeePercent.Equal(decimal.NewFromInt(12)))

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.settingsRepo)
	})

	t.Run("StaleVersion", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newSettingsService()

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(stored(), nil).Once()

		settings, err := svc.Update(ctx, testAdmin.ID, validSettingsUpdate(2))

		assert.ErrorIs(t, err, util.ErrSettingsConflict)
		assert.Nil(t, settings)
		m.txController.AssertNotCalled(t, "Commit")
		m.settingsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.settingsRepo)
	})

	t.Run("NonPositiveExchangeRate", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newSettingsService()

		update := validSettingsUpdate(3)
		update.ExchangeRate = decimal.Zero

		settings, err := svc.Update(ctx, testAdmin.ID, update)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, settings)
		m.settingsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ActorNotAdmin", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newSettingsService()

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()

		settings, err := svc.Update(ctx, testCustomer.ID, validSettingsUpdate(3))

		assert.ErrorIs(t, err, util.ErrNotAdmin)
		assert.Nil(t, settings)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.settingsRepo)
	})
}
