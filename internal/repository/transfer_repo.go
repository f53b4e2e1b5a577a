// internal/repository/transfer_repo.go
package repository

import (
	"context"
	"time"

	"transferbook/internal/domain"

	"github.com/shopspring/decimal"
)

// TransferRepository defines the interface for transfer data operations.
// "Active" means every status except CANCELLED: cancelled transfers are kept
// for audit but excluded from all debt arithmetic.
type TransferRepository interface {
	// CreateTransfer adds a new transfer record using the provided DBExecutor.
	CreateTransfer(ctx context.Context, q DBExecutor, transfer *domain.Transfer) error
	// GetTransferByID retrieves a transfer by its ID.
	GetTransferByID(ctx context.Context, q DBExecutor, id int64) (*domain.Transfer, error)
	// UpdateTransferStatus moves a transfer to the given status.
	UpdateTransferStatus(ctx context.Context, q DBExecutor, id int64, status domain.TransferStatus) error
	// SumActiveByUserBefore returns total sent FCFA and total fees over the
	// user's active transfers created strictly before cutoff.
	SumActiveByUserBefore(ctx context.Context, q DBExecutor, userID int64, cutoff time.Time) (sent, fees decimal.Decimal, err error)
	// SumActiveByUserWithin returns the same totals over [from, to).
	SumActiveByUserWithin(ctx context.Context, q DBExecutor, userID int64, from, to time.Time) (sent, fees decimal.Decimal, err error)
	// ListActiveByUserWithin retrieves the user's active transfers created in
	// [from, to), oldest first.
	ListActiveByUserWithin(ctx context.Context, q DBExecutor, userID int64, from, to time.Time) ([]domain.Transfer, error)
	// ListByUser retrieves a paginated list of the user's transfers (all
	// statuses), newest first, together with the total count.
	ListByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transfer, int64, error)
	// DeleteCancelled removes all cancelled transfers and returns how many
	// rows were deleted.
	DeleteCancelled(ctx context.Context, q DBExecutor) (int64, error)
}
