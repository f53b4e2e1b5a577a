// internal/domain/payment.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received from a user to offset their debt, recorded by an
// admin. Payments are append-only: recording one never rewrites prior days'
// reports, it only reduces remaining debt from its own day forward.
type Payment struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"` // FCFA
	ValidatedBy int64           `db:"validated_by" json:"validated_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NewPayment creates a new Payment instance.
func NewPayment(userID int64, amount decimal.Decimal, validatedBy int64) *Payment {
	return &Payment{
		UserID:      userID,
		Amount:      amount,
		ValidatedBy: validatedBy,
		CreatedAt:   time.Now().UTC(),
	}
}
