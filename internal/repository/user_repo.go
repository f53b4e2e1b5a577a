// internal/repository/user_repo.go
package repository

import (
	"context"

	"transferbook/internal/domain"

	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByPhone retrieves a user by their phone number using the provided DBExecutor.
	GetUserByPhone(ctx context.Context, q DBExecutor, phone string) (*domain.User, error)
	// UpdateFeePercent sets or clears a user's personal fee percentage.
	// Existing transfers keep the fee they captured at creation time.
	UpdateFeePercent(ctx context.Context, q DBExecutor, userID int64, feePercent *decimal.Decimal) error
	// CreditWallet adds amountGNF to the user's running GNF balance.
	CreditWallet(ctx context.Context, q DBExecutor, userID int64, amountGNF decimal.Decimal) error
}
