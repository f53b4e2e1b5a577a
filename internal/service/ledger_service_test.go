// internal/service/ledger_service_test.go
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

type ledgerMocks struct {
	dbBeginner   *MockDBBeginner
	dbExecutor   *MockDBExecutor
	txController *MockTxController
	userRepo     *MockUserRepository
	transferRepo *MockTransferRepository
	paymentRepo  *MockPaymentRepository
	settingsRepo *MockSettingsRepository
}

func newLedgerService() (LedgerService, ledgerMocks) {
	m := ledgerMocks{
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
		userRepo:     new(MockUserRepository),
		transferRepo: new(MockTransferRepository),
		paymentRepo:  new(MockPaymentRepository),
		settingsRepo: new(MockSettingsRepository),
	}
	svc := NewLedgerService(
		m.dbBeginner,
		m.dbExecutor,
		m.userRepo,
		m.transferRepo,
		m.paymentRepo,
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

var (
	testAdmin    = &domain.User{ID: 99, Name: "Fatou", Role: domain.RoleAdmin}
	testCustomer = &domain.User{ID: 1, Name: "Mamadou", Role: domain.RoleCustomer}
)

// TestApplyPayment tests the ApplyPayment method of LedgerService.
func TestApplyPayment(t *testing.T) {
	amount := decimal.NewFromInt(50000)

	t.Run("SuccessfulPayment", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()
		m.paymentRepo.On("CreatePayment", ctx, mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()

		payment, err := svc.ApplyPayment(ctx, testCustomer.ID, amount, testAdmin.ID)

		assert.NoError(t, err)
		assert.NotNil(t, payment)
		assert.Equal(t, testCustomer.ID, payment.UserID)
		assert.Equal(t, testAdmin.ID, payment.ValidatedBy)
		assert.True(t, payment.Amount.Equal(amount))

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.paymentRepo)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		payment, err := svc.ApplyPayment(ctx, testCustomer.ID, decimal.NewFromInt(-100), testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, payment)

		// No transaction begun, no row inserted.
		m.txController.AssertNotCalled(t, "Commit")
		m.txController.AssertNotCalled(t, "Rollback")
		m.paymentRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		payment, err := svc.ApplyPayment(ctx, testCustomer.ID, decimal.Zero, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, payment)
		m.paymentRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ActorNotAdmin", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()

		payment, err := svc.ApplyPayment(ctx, testCustomer.ID, amount, testCustomer.ID)

		assert.ErrorIs(t, err, util.ErrNotAdmin)
		assert.Nil(t, payment)
		m.txController.AssertNotCalled(t, "Commit")
		m.paymentRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.paymentRepo)
	})
}

// TestCreateTransfer tests the CreateTransfer method of LedgerService.
func TestCreateTransfer(t *testing.T) {
	settings := &domain.Settings{
		ID:                1,
		ExchangeRate:      decimal.RequireFromString("14.5"),
		MainBalanceGNF:    decimal.NewFromInt(5000000),
		FeePercent:        decimal.NewFromInt(10),
		DebtThresholdFCFA: decimal.Zero, // No global limit
		Version:           1,
	}

	t.Run("CapturesGlobalFeeAndRate", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(settings, nil).Once()
		m.transferRepo.On("CreateTransfer", ctx, mock.Anything, mock.AnythingOfType("*domain.Transfer")).Return(nil).Once()

		transfer, err := svc.CreateTransfer(ctx, testCustomer.ID, decimal.NewFromInt(100000))

		assert.NoError(t, err)
		assert.Equal(t, domain.TransferStatusPending, transfer.Status)
		assert.True(t, transfer.FeePercent.Equal(decimal.NewFromInt(10)))
		assert.True(t, transfer.FeeAmount.Equal(decimal.NewFromInt(10000)))
		assert.True(t, transfer.ExchangeRate.Equal(decimal.RequireFromString("14.5")))
		assert.True(t, transfer.AmountGNF.Equal(decimal.NewFromInt(1450000)))

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.settingsRepo, m.transferRepo)
	})

	t.Run("PersonalFeeOverridesGlobal", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		personalFee := decimal.NewFromInt(5)
		user := &domain.User{ID: 2, Name: "Aissatou", Role: domain.RoleCustomer, FeePercent: &personalFee}

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, user.ID).Return(user, nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(settings, nil).Once()
		m.transferRepo.On("CreateTransfer", ctx, mock.Anything, mock.AnythingOfType("*domain.Transfer")).Return(nil).Once()

		transfer, err := svc.CreateTransfer(ctx, user.ID, decimal.NewFromInt(100000))

		assert.NoError(t, err)
		assert.True(t, transfer.FeePercent.Equal(personalFee))
		assert.True(t, transfer.FeeAmount.Equal(decimal.NewFromInt(5000)))

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.settingsRepo, m.transferRepo)
	})

	t.Run("DebtThresholdExceeded", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		limited := *settings
		limited.DebtThresholdFCFA = decimal.NewFromInt(100000)

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(&limited, nil).Once()
		m.transferRepo.On("SumActiveByUserBefore", ctx, mock.Anything, testCustomer.ID, mock.Anything).
			Return(decimal.NewFromInt(50000), decimal.NewFromInt(5000), nil).Once()
		m.paymentRepo.On("SumByUserBefore", ctx, mock.Anything, testCustomer.ID, mock.Anything).
			Return(decimal.Zero, nil).Once()

		transfer, err := svc.CreateTransfer(ctx, testCustomer.ID, decimal.NewFromInt(100000))

		assert.ErrorIs(t, err, util.ErrDebtThresholdExceeded)
		assert.Nil(t, transfer)
		m.txController.AssertNotCalled(t, "Commit")
		m.transferRepo.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.settingsRepo, m.transferRepo, m.paymentRepo)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		transfer, err := svc.CreateTransfer(ctx, testCustomer.ID, decimal.Zero)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, transfer)
		m.transferRepo.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestCancelTransfer tests the CancelTransfer method of LedgerService.
func TestCancelTransfer(t *testing.T) {
	transferID := int64(10)

	pendingTransfer := func() *domain.Transfer {
		return &domain.Transfer{
			ID:         transferID,
			UserID:     testCustomer.ID,
			AmountFCFA: decimal.NewFromInt(100000),
			FeeAmount:  decimal.NewFromInt(10000),
			Status:     domain.TransferStatusPending,
		}
	}

	t.Run("CancelPending", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("GetTransferByID", ctx, mock.Anything, transferID).Return(pendingTransfer(), nil).Once()
		m.transferRepo.On("UpdateTransferStatus", ctx, mock.Anything, transferID, domain.TransferStatusCancelled).Return(nil).Once()

		transfer, err := svc.CancelTransfer(ctx, transferID, testAdmin.ID)

		assert.NoError(t, err)
		assert.Equal(t, domain.TransferStatusCancelled, transfer.Status)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo)
	})

	t.Run("AlreadyValidated", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		validated := pendingTransfer()
		validated.Status = domain.TransferStatusValidated

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("GetTransferByID", ctx, mock.Anything, transferID).Return(validated, nil).Once()

		transfer, err := svc.CancelTransfer(ctx, transferID, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrInvalidTransition)
		assert.Nil(t, transfer)
		m.txController.AssertNotCalled(t, "Commit")
		m.transferRepo.AssertNotCalled(t, "UpdateTransferStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		cancelled := pendingTransfer()
		cancelled.Status = domain.TransferStatusCancelled

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("GetTransferByID", ctx, mock.Anything, transferID).Return(cancelled, nil).Once()

		transfer, err := svc.CancelTransfer(ctx, transferID, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrInvalidTransition)
		assert.Nil(t, transfer)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo)
	})

	t.Run("TransferNotFound", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("GetTransferByID", ctx, mock.Anything, transferID).Return(nil, util.ErrTransferNotFound).Once()

		transfer, err := svc.CancelTransfer(ctx, transferID, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrTransferNotFound)
		assert.Nil(t, transfer)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo)
	})
}

// TestValidateTransfer tests the ValidateTransfer method of LedgerService.
func TestValidateTransfer(t *testing.T) {
	transferID := int64(10)
	amountGNF := decimal.NewFromInt(1450000)

	seenTransfer := func() *domain.Transfer {
		return &domain.Transfer{
			ID:        transferID,
			UserID:    testCustomer.ID,
			AmountGNF: amountGNF,
			Status:    domain.TransferStatusSeen,
		}
	}

	t.Run("SuccessfulValidation", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		settings := &domain.Settings{ID: 1, MainBalanceGNF: decimal.NewFromInt(2000000)}

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("GetTransferByID", ctx, mock.Anything, transferID).Return(seenTransfer(), nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(settings, nil).Once()
		m.settingsRepo.On("AdjustMainBalance", ctx, mock.Anything, amountGNF.Neg()).Return(nil).Once()
		m.userRepo.On("CreditWallet", ctx, mock.Anything, testCustomer.ID, amountGNF).Return(nil).Once()
		m.transferRepo.On("UpdateTransferStatus", ctx, mock.Anything, transferID, domain.TransferStatusValidated).Return(nil).Once()

		transfer, err := svc.ValidateTransfer(ctx, transferID, testAdmin.ID)

		assert.NoError(t, err)
		assert.Equal(t, domain.TransferStatusValidated, transfer.Status)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo, m.settingsRepo)
	})

	t.Run("InsufficientFloat", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		settings := &domain.Settings{ID: 1, MainBalanceGNF: decimal.NewFromInt(1000)}

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("GetTransferByID", ctx, mock.Anything, transferID).Return(seenTransfer(), nil).Once()
		m.settingsRepo.On("Get", ctx, mock.Anything).Return(settings, nil).Once()

		transfer, err := svc.ValidateTransfer(ctx, transferID, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrInsufficientFloat)
		assert.Nil(t, transfer)
		m.txController.AssertNotCalled(t, "Commit")
		m.settingsRepo.AssertNotCalled(t, "AdjustMainBalance", mock.Anything, mock.Anything, mock.Anything)
		m.transferRepo.AssertNotCalled(t, "UpdateTransferStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo, m.settingsRepo)
	})
}

// TestDeletePayment tests the DeletePayment method of LedgerService.
func TestDeletePayment(t *testing.T) {
	paymentID := int64(7)

	t.Run("SuccessfulDelete", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		payment := &domain.Payment{ID: paymentID, UserID: testCustomer.ID, Amount: decimal.NewFromInt(50000)}

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.paymentRepo.On("GetPaymentByID", ctx, mock.Anything, paymentID).Return(payment, nil).Once()
		m.paymentRepo.On("DeletePayment", ctx, mock.Anything, paymentID).Return(nil).Once()

		err := svc.DeletePayment(ctx, paymentID, testAdmin.ID)

		assert.NoError(t, err)
		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.paymentRepo)
	})

	t.Run("PaymentNotFound", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.paymentRepo.On("GetPaymentByID", ctx, mock.Anything, paymentID).Return(nil, util.ErrPaymentNotFound).Once()

		err := svc.DeletePayment(ctx, paymentID, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrPaymentNotFound)
		m.paymentRepo.AssertNotCalled(t, "DeletePayment", mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.paymentRepo)
	})
}

// TestPurgeCancelledTransfers tests the PurgeCancelledTransfers method of LedgerService.
func TestPurgeCancelledTransfers(t *testing.T) {
	t.Run("SuccessfulPurge", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.transferRepo.On("DeleteCancelled", ctx, mock.Anything).Return(int64(3), nil).Once()

		deleted, err := svc.PurgeCancelledTransfers(ctx, testAdmin.ID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo)
	})

	t.Run("ActorNotAdmin", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		m.txController.On("Rollback").Return(nil).Once()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()

		deleted, err := svc.PurgeCancelledTransfers(ctx, testCustomer.ID)

		assert.ErrorIs(t, err, util.ErrNotAdmin)
		assert.Zero(t, deleted)
		m.transferRepo.AssertNotCalled(t, "DeleteCancelled", mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo, m.transferRepo)
	})
}

// TestSetUserFeePercent tests the SetUserFeePercent method of LedgerService.
func TestSetUserFeePercent(t *testing.T) {
	t.Run("SuccessfulUpdate", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		fee := decimal.NewFromInt(8)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.userRepo.On("GetUserByID", ctx, mock.Anything, testAdmin.ID).Return(testAdmin, nil).Once()
		m.userRepo.On("UpdateFeePercent", ctx, mock.Anything, testCustomer.ID, &fee).Return(nil).Once()

		err := svc.SetUserFeePercent(ctx, testCustomer.ID, &fee, testAdmin.ID)

		assert.NoError(t, err)
		mock.AssertExpectationsForObjects(t, m.txController, m.userRepo)
	})

	t.Run("FeeOutOfRange", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newLedgerService()

		fee := decimal.NewFromInt(150)
		err := svc.SetUserFeePercent(ctx, testCustomer.ID, &fee, testAdmin.ID)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		m.userRepo.AssertNotCalled(t, "UpdateFeePercent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
