// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"transferbook/internal/domain"
	"transferbook/internal/repository"
	"transferbook/internal/util"
	"transferbook/pkg/db"

	"github.com/shopspring/decimal"
)

// LedgerService is the write side of the ledger: it creates transfers and
// payments and drives transfer status transitions. Every mutation runs inside
// a single database transaction. Operations that take an actorID are reserved
// for admins; the service verifies the referenced identity even though
// authentication itself happens upstream.
type LedgerService interface {
	CreateUser(ctx context.Context, name, phone string, role domain.Role) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	// SetUserFeePercent changes the fee applied to the user's future
	// transfers. Fees already captured on existing transfers are untouched.
	SetUserFeePercent(ctx context.Context, userID int64, feePercent *decimal.Decimal, actorID int64) error

	// CreateTransfer records a send, snapshotting the exchange rate and the
	// user's effective fee percentage at creation time.
	CreateTransfer(ctx context.Context, userID int64, amountFCFA decimal.Decimal) (*domain.Transfer, error)
	// MarkTransferSeen moves a pending transfer to SEEN.
	MarkTransferSeen(ctx context.Context, transferID, actorID int64) (*domain.Transfer, error)
	// ValidateTransfer completes a transfer: it credits the user's GNF wallet
	// and debits the main GNF float.
	ValidateTransfer(ctx context.Context, transferID, actorID int64) (*domain.Transfer, error)
	// CancelTransfer aborts a pending or seen transfer. The row is retained
	// but excluded from all debt totals from then on.
	CancelTransfer(ctx context.Context, transferID, actorID int64) (*domain.Transfer, error)
	// PurgeCancelledTransfers permanently removes cancelled transfers.
	PurgeCancelledTransfers(ctx context.Context, actorID int64) (int64, error)

	// ApplyPayment records money received from the user against their debt.
	ApplyPayment(ctx context.Context, userID int64, amount decimal.Decimal, actorID int64) (*domain.Payment, error)
	// DeletePayment removes a payment; debt recomputes from the remaining rows.
	DeletePayment(ctx context.Context, paymentID, actorID int64) error
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner   db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor   repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo     repository.UserRepository
	transferRepo repository.TransferRepository
	paymentRepo  repository.PaymentRepository
	settingsRepo repository.SettingsRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transferRepo repository.TransferRepository,
	paymentRepo repository.PaymentRepository,
	settingsRepo repository.SettingsRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		userRepo:     userRepo,
		transferRepo: transferRepo,
		paymentRepo:  paymentRepo,
		settingsRepo: settingsRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

// requireAdmin verifies that the acting user exists and holds the admin role.
func requireAdmin(ctx context.Context, q repository.DBExecutor, users repository.UserRepository, actorID int64) (*domain.User, error) {
	actor, err := users.GetUserByID(ctx, q, actorID)
	if err != nil {
		return nil, fmt.Errorf("actor %d: %w", actorID, err)
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("actor %d: %w", actorID, util.ErrNotAdmin)
	}
	return actor, nil
}

func (s *ledgerService) executorFor(tx db.TxController) (repository.DBExecutor, error) {
	txExecutor, ok := tx.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transaction controller does not implement DBExecutor")
	}
	return txExecutor, nil
}

// CreateUser registers a user. Phone numbers are unique.
func (s *ledgerService) CreateUser(ctx context.Context, name, phone string, role domain.Role) (*domain.User, error) {
	if name == "" || phone == "" {
		return nil, fmt.Errorf("create user: name and phone are required: %w", util.ErrInvalidInput)
	}
	if role != domain.RoleAdmin && role != domain.RoleCustomer {
		return nil, fmt.Errorf("create user: unknown role %q: %w", role, util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	_, err = s.userRepo.GetUserByPhone(ctx, txExecutor, phone)
	if err == nil {
		return nil, fmt.Errorf("create user: phone '%s' already registered: %w", phone, util.ErrInvalidInput)
	}
	if !util.IsError(err, util.ErrUserNotFound) {
		return nil, fmt.Errorf("create user: failed to check existing user: %w", err)
	}

	user := domain.NewUser(name, phone, role)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create user: failed to commit transaction: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *ledgerService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

// SetUserFeePercent sets or clears the user's personal fee percentage.
func (s *ledgerService) SetUserFeePercent(ctx context.Context, userID int64, feePercent *decimal.Decimal, actorID int64) error {
	if feePercent != nil && (feePercent.IsNegative() || feePercent.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("set fee percent: must be between 0 and 100: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("set fee percent: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return fmt.Errorf("set fee percent: %w", err)
	}

	if _, err := requireAdmin(ctx, txExecutor, s.userRepo, actorID); err != nil {
		return fmt.Errorf("set fee percent: %w", err)
	}
	if err := s.userRepo.UpdateFeePercent(ctx, txExecutor, userID, feePercent); err != nil {
		return fmt.Errorf("set fee percent: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("set fee percent: failed to commit transaction: %w", err)
	}
	return nil
}

// CreateTransfer records a send for the user. The current settings row is
// fetched once inside the transaction; rate and fee percentage are captured on
// the transfer so later settings changes never rewrite history.
func (s *ledgerService) CreateTransfer(ctx context.Context, userID int64, amountFCFA decimal.Decimal) (*domain.Transfer, error) {
	if amountFCFA.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("create transfer: amount must be positive: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx, txExecutor)
	if err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	feePercent := user.EffectiveFeePercent(settings.FeePercent)
	feeAmount := domain.FeeFor(amountFCFA, feePercent)

	// Credit limit check against the user's debt as of now.
	threshold := user.EffectiveDebtThreshold(settings.DebtThresholdFCFA)
	if threshold.IsPositive() {
		now := time.Now().UTC()
		sent, fees, err := s.transferRepo.SumActiveByUserBefore(ctx, txExecutor, userID, now)
		if err != nil {
			return nil, fmt.Errorf("create transfer: %w", err)
		}
		paid, err := s.paymentRepo.SumByUserBefore(ctx, txExecutor, userID, now)
		if err != nil {
			return nil, fmt.Errorf("create transfer: %w", err)
		}
		currentDebt := sent.Add(fees).Sub(paid)
		if currentDebt.Add(amountFCFA).Add(feeAmount).GreaterThan(threshold) {
			return nil, fmt.Errorf("create transfer: debt %s plus send would exceed threshold %s: %w",
				currentDebt, threshold, util.ErrDebtThresholdExceeded)
		}
	}

	transfer := domain.NewTransfer(userID, amountFCFA, feePercent, settings.ExchangeRate)
	if err := s.transferRepo.CreateTransfer(ctx, txExecutor, transfer); err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create transfer: failed to commit transaction: %w", err)
	}
	return transfer, nil
}

// transition moves a transfer to the target status after checking the allowed-
// transition table, applying extra effects inside the same transaction.
func (s *ledgerService) transition(
	ctx context.Context,
	transferID, actorID int64,
	target domain.TransferStatus,
	effects func(txExecutor repository.DBExecutor, transfer *domain.Transfer) error,
) (*domain.Transfer, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transition transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return nil, fmt.Errorf("transition transfer: %w", err)
	}

	if _, err := requireAdmin(ctx, txExecutor, s.userRepo, actorID); err != nil {
		return nil, fmt.Errorf("transition transfer: %w", err)
	}

	transfer, err := s.transferRepo.GetTransferByID(ctx, txExecutor, transferID)
	if err != nil {
		return nil, fmt.Errorf("transition transfer: %w", err)
	}
	if !domain.CanTransition(transfer.Status, target) {
		return nil, fmt.Errorf("transition transfer %d: %s -> %s: %w",
			transferID, transfer.Status, target, util.ErrInvalidTransition)
	}

	if effects != nil {
		if err := effects(txExecutor, transfer); err != nil {
			return nil, fmt.Errorf("transition transfer: %w", err)
		}
	}

	if err := s.transferRepo.UpdateTransferStatus(ctx, txExecutor, transferID, target); err != nil {
		return nil, fmt.Errorf("transition transfer: %w", err)
	}
	transfer.Status = target

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("transition transfer: failed to commit transaction: %w", err)
	}
	return transfer, nil
}

// MarkTransferSeen moves a pending transfer to SEEN.
func (s *ledgerService) MarkTransferSeen(ctx context.Context, transferID, actorID int64) (*domain.Transfer, error) {
	return s.transition(ctx, transferID, actorID, domain.TransferStatusSeen, nil)
}

// ValidateTransfer completes a transfer. The payout in GNF moves from the main
// float to the user's wallet within the same database transaction.
func (s *ledgerService) ValidateTransfer(ctx context.Context, transferID, actorID int64) (*domain.Transfer, error) {
	return s.transition(ctx, transferID, actorID, domain.TransferStatusValidated,
		func(txExecutor repository.DBExecutor, transfer *domain.Transfer) error {
			settings, err := s.settingsRepo.Get(ctx, txExecutor)
			if err != nil {
				return err
			}
			if settings.MainBalanceGNF.LessThan(transfer.AmountGNF) {
				return fmt.Errorf("main balance %s below payout %s: %w",
					settings.MainBalanceGNF, transfer.AmountGNF, util.ErrInsufficientFloat)
			}
			if err := s.settingsRepo.AdjustMainBalance(ctx, txExecutor, transfer.AmountGNF.Neg()); err != nil {
				return err
			}
			return s.userRepo.CreditWallet(ctx, txExecutor, transfer.UserID, transfer.AmountGNF)
		})
}

// CancelTransfer aborts a pending or seen transfer.
func (s *ledgerService) CancelTransfer(ctx context.Context, transferID, actorID int64) (*domain.Transfer, error) {
	return s.transition(ctx, transferID, actorID, domain.TransferStatusCancelled, nil)
}

// PurgeCancelledTransfers permanently removes cancelled transfers.
func (s *ledgerService) PurgeCancelledTransfers(ctx context.Context, actorID int64) (int64, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("purge cancelled: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return 0, fmt.Errorf("purge cancelled: %w", err)
	}

	if _, err := requireAdmin(ctx, txExecutor, s.userRepo, actorID); err != nil {
		return 0, fmt.Errorf("purge cancelled: %w", err)
	}

	deleted, err := s.transferRepo.DeleteCancelled(ctx, txExecutor)
	if err != nil {
		return 0, fmt.Errorf("purge cancelled: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("purge cancelled: failed to commit transaction: %w", err)
	}
	return deleted, nil
}

// ApplyPayment records money received from the user. The ledger is append-
// only: the payment reduces remaining debt from its own day forward and never
// rewrites prior days' reports.
func (s *ledgerService) ApplyPayment(ctx context.Context, userID int64, amount decimal.Decimal, actorID int64) (*domain.Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("apply payment: amount must be positive: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("apply payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	admin, err := requireAdmin(ctx, txExecutor, s.userRepo, actorID)
	if err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}
	if _, err := s.userRepo.GetUserByID(ctx, txExecutor, userID); err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	payment := domain.NewPayment(userID, amount, admin.ID)
	if err := s.paymentRepo.CreatePayment(ctx, txExecutor, payment); err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("apply payment: failed to commit transaction: %w", err)
	}
	return payment, nil
}

// DeletePayment removes a payment row. Because reports recompute from rows,
// debt figures adjust automatically from the payment's day forward.
func (s *ledgerService) DeletePayment(ctx context.Context, paymentID, actorID int64) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("delete payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, err := s.executorFor(txController)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if _, err := requireAdmin(ctx, txExecutor, s.userRepo, actorID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if _, err := s.paymentRepo.GetPaymentByID(ctx, txExecutor, paymentID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if err := s.paymentRepo.DeletePayment(ctx, txExecutor, paymentID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete payment: failed to commit transaction: %w", err)
	}
	return nil
}
