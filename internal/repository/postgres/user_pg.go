// internal/repository/postgres/user_pg.go
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

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	// Methods receive a DBExecutor directly, so no connection is stored here.
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (name, phone, role, fee_percent, wallet_gnf, debt_threshold_fcfa, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		user.Name,
		user.Phone,
		user.Role,
		user.FeePercent,
		user.WalletGNF,
		user.DebtThresholdFCFA,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, name, phone, role, fee_percent, wallet_gnf, debt_threshold_fcfa, created_at, updated_at
              FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by their phone number using the provided DBExecutor.
func (r *UserRepository) GetUserByPhone(ctx context.Context, q repository.DBExecutor, phone string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, name, phone, role, fee_percent, wallet_gnf, debt_threshold_fcfa, created_at, updated_at
              FROM users WHERE phone = $1`
	err := q.GetContext(ctx, &user, query, phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by phone '%s': %w", phone, err)
	}
	return &user, nil
}

// UpdateFeePercent sets or clears a user's personal fee percentage.
func (r *UserRepository) UpdateFeePercent(ctx context.Context, q repository.DBExecutor, userID int64, feePercent *decimal.Decimal) error {
	query := `UPDATE users SET fee_percent = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, feePercent, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update fee percent for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating fee percent for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// CreditWallet adds amountGNF to the user's running GNF balance.
func (r *UserRepository) CreditWallet(ctx context.Context, q repository.DBExecutor, userID int64, amountGNF decimal.Decimal) error {
	query := `UPDATE users SET wallet_gnf = wallet_gnf + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, amountGNF, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to credit wallet for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after crediting wallet for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}
