// internal/repository/payment_repo.go
package repository

import (
	"context"
	"time"

	"transferbook/internal/domain"

	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment data operations.
type PaymentRepository interface {
	// CreatePayment adds a new payment record using the provided DBExecutor.
	CreatePayment(ctx context.Context, q DBExecutor, payment *domain.Payment) error
	// GetPaymentByID retrieves a payment by its ID.
	GetPaymentByID(ctx context.Context, q DBExecutor, id int64) (*domain.Payment, error)
	// DeletePayment removes a payment. Reports are recomputed from rows, so
	// the debt compensation is implicit.
	DeletePayment(ctx context.Context, q DBExecutor, id int64) error
	// SumByUserBefore returns the total paid by the user strictly before cutoff.
	SumByUserBefore(ctx context.Context, q DBExecutor, userID int64, cutoff time.Time) (decimal.Decimal, error)
	// SumByUserWithin returns the total paid by the user in [from, to).
	SumByUserWithin(ctx context.Context, q DBExecutor, userID int64, from, to time.Time) (decimal.Decimal, error)
	// ListByUserWithin retrieves the user's payments created in [from, to),
	// oldest first.
	ListByUserWithin(ctx context.Context, q DBExecutor, userID int64, from, to time.Time) ([]domain.Payment, error)
	// ListByUser retrieves a paginated list of the user's payments, newest
	// first, together with the total count.
	ListByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Payment, int64, error)
}
