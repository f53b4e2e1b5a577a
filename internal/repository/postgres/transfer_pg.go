// internal/repository/postgres/transfer_pg.go
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

// TransferRepository implements repository.TransferRepository for PostgreSQL.
type TransferRepository struct {
	// Methods receive a DBExecutor directly, so no connection is stored here.
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db *sqlx.DB) repository.TransferRepository {
	return &TransferRepository{}
}

// CreateTransfer inserts a new transfer record using the provided DBExecutor.
func (r *TransferRepository) CreateTransfer(ctx context.Context, q repository.DBExecutor, transfer *domain.Transfer) error {
	query := `INSERT INTO transfers (user_id, amount_fcfa, amount_gnf, fee_percent, fee_amount, exchange_rate, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transfer.UserID,
		transfer.AmountFCFA,
		transfer.AmountGNF,
		transfer.FeePercent,
		transfer.FeeAmount,
		transfer.ExchangeRate,
		transfer.Status,
		transfer.CreatedAt,
		transfer.UpdatedAt,
	).Scan(&transfer.ID)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// GetTransferByID retrieves a transfer by its ID using the provided DBExecutor.
func (r *TransferRepository) GetTransferByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer
	query := `SELECT id, user_id, amount_fcfa, amount_gnf, fee_percent, fee_amount, exchange_rate, status, created_at, updated_at
              FROM transfers WHERE id = $1`
	err := q.GetContext(ctx, &transfer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer by ID %d: %w", id, err)
	}
	return &transfer, nil
}

// UpdateTransferStatus moves a transfer to the given status.
func (r *TransferRepository) UpdateTransferStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.TransferStatus) error {
	query := `UPDATE transfers SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status for transfer %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating status for transfer %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrTransferNotFound
	}
	return nil
}

// SumActiveByUserBefore returns total sent FCFA and total fees over the user's
// non-cancelled transfers created strictly before cutoff.
func (r *TransferRepository) SumActiveByUserBefore(ctx context.Context, q repository.DBExecutor, userID int64, cutoff time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_fcfa), 0), COALESCE(SUM(fee_amount), 0)
		FROM transfers
		WHERE user_id = $1 AND status <> $2 AND created_at < $3`
	return r.sumRow(ctx, q, query, userID, domain.TransferStatusCancelled, cutoff)
}

// SumActiveByUserWithin returns the same totals over [from, to).
func (r *TransferRepository) SumActiveByUserWithin(ctx context.Context, q repository.DBExecutor, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_fcfa), 0), COALESCE(SUM(fee_amount), 0)
		FROM transfers
		WHERE user_id = $1 AND status <> $2 AND created_at >= $3 AND created_at < $4`
	return r.sumRow(ctx, q, query, userID, domain.TransferStatusCancelled, from, to)
}

func (r *TransferRepository) sumRow(ctx context.Context, q repository.DBExecutor, query string, args ...interface{}) (decimal.Decimal, decimal.Decimal, error) {
	var sent, fees decimal.Decimal
	err := q.QueryRowContext(ctx, query, args...).Scan(&sent, &fees)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum transfers: %w", err)
	}
	return sent, fees, nil
}

// ListActiveByUserWithin retrieves the user's non-cancelled transfers created
// in [from, to), oldest first.
func (r *TransferRepository) ListActiveByUserWithin(ctx context.Context, q repository.DBExecutor, userID int64, from, to time.Time) ([]domain.Transfer, error) {
	transfers := []domain.Transfer{}
	query := `
		SELECT id, user_id, amount_fcfa, amount_gnf, fee_percent, fee_amount, exchange_rate, status, created_at, updated_at
		FROM transfers
		WHERE user_id = $1 AND status <> $2 AND created_at >= $3 AND created_at < $4
		ORDER BY created_at ASC`
	err := q.SelectContext(ctx, &transfers, query, userID, domain.TransferStatusCancelled, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers for user %d: %w", userID, err)
	}
	return transfers, nil
}

// ListByUser retrieves a paginated list of the user's transfers, newest first.
// It performs two queries: one for the data and one for the total count.
func (r *TransferRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transfer, int64, error) {
	transfers := []domain.Transfer{}
	query := `
		SELECT id, user_id, amount_fcfa, amount_gnf, fee_percent, fee_amount, exchange_rate, status, created_at, updated_at
		FROM transfers
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transfers, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transfers for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transfers WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total transfer count for user %d: %w", userID, err)
	}

	return transfers, totalCount, nil
}

// DeleteCancelled removes all cancelled transfers.
func (r *TransferRepository) DeleteCancelled(ctx context.Context, q repository.DBExecutor) (int64, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM transfers WHERE status = $1`, domain.TransferStatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cancelled transfers: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after deleting cancelled transfers: %w", err)
	}
	return rowsAffected, nil
}
