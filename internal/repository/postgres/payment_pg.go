// internal/repository/postgres/payment_pg.go
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

// PaymentRepository implements repository.PaymentRepository for PostgreSQL.
type PaymentRepository struct {
	// Methods receive a DBExecutor directly, so no connection is stored here.
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) repository.PaymentRepository {
	return &PaymentRepository{}
}

// CreatePayment inserts a new payment record using the provided DBExecutor.
func (r *PaymentRepository) CreatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	query := `INSERT INTO payments (user_id, amount, validated_by, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		payment.UserID,
		payment.Amount,
		payment.ValidatedBy,
		payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPaymentByID retrieves a payment by its ID using the provided DBExecutor.
func (r *PaymentRepository) GetPaymentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payment, error) {
	var payment domain.Payment
	query := `SELECT id, user_id, amount, validated_by, created_at FROM payments WHERE id = $1`
	err := q.GetContext(ctx, &payment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID %d: %w", id, err)
	}
	return &payment, nil
}

// DeletePayment removes a payment row.
func (r *PaymentRepository) DeletePayment(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting payment %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrPaymentNotFound
	}
	return nil
}

// SumByUserBefore returns the total paid by the user strictly before cutoff.
func (r *PaymentRepository) SumByUserBefore(ctx context.Context, q repository.DBExecutor, userID int64, cutoff time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id = $1 AND created_at < $2`
	err := q.QueryRowContext(ctx, query, userID, cutoff).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for user %d: %w", userID, err)
	}
	return total, nil
}

// SumByUserWithin returns the total paid by the user in [from, to).
func (r *PaymentRepository) SumByUserWithin(ctx context.Context, q repository.DBExecutor, userID int64, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	err := q.QueryRowContext(ctx, query, userID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for user %d: %w", userID, err)
	}
	return total, nil
}

// ListByUserWithin retrieves the user's payments created in [from, to), oldest first.
func (r *PaymentRepository) ListByUserWithin(ctx context.Context, q repository.DBExecutor, userID int64, from, to time.Time) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	query := `
		SELECT id, user_id, amount, validated_by, created_at
		FROM payments
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC`
	err := q.SelectContext(ctx, &payments, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for user %d: %w", userID, err)
	}
	return payments, nil
}

// ListByUser retrieves a paginated list of the user's payments, newest first.
// It performs two queries: one for the data and one for the total count.
func (r *PaymentRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Payment, int64, error) {
	payments := []domain.Payment{}
	query := `
		SELECT id, user_id, amount, validated_by, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &payments, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payments WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total payment count for user %d: %w", userID, err)
	}

	return payments, totalCount, nil
}
