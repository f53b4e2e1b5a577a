// internal/domain/transfer.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransferStatus defines the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusSeen      TransferStatus = "SEEN"
	TransferStatusValidated TransferStatus = "VALIDATED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// allowedTransitions is the explicit state machine for transfer statuses:
// PENDING -> SEEN -> VALIDATED, where PENDING may also jump straight to
// VALIDATED without being seen, and PENDING|SEEN -> CANCELLED is the abort
// path. VALIDATED and CANCELLED are terminal.
var allowedTransitions = map[TransferStatus][]TransferStatus{
	TransferStatusPending: {TransferStatusSeen, TransferStatusValidated, TransferStatusCancelled},
	TransferStatusSeen:    {TransferStatusValidated, TransferStatusCancelled},
}

// CanTransition reports whether a transfer in status from may move to status to.
func CanTransition(from, to TransferStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transfer represents a single send: a user hands over AmountFCFA, the
// business pays out AmountGNF on the other side. The exchange rate and fee
// percentage are captured at creation time and never updated afterwards, so
// historical reconciliation replays exactly even after settings change.
type Transfer struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	AmountFCFA   decimal.Decimal `db:"amount_fcfa" json:"amount_fcfa"`
	AmountGNF    decimal.Decimal `db:"amount_gnf" json:"amount_gnf"`
	FeePercent   decimal.Decimal `db:"fee_percent" json:"fee_percent"`     // Captured, immutable
	FeeAmount    decimal.Decimal `db:"fee_amount" json:"fee_amount"`       // Captured, immutable
	ExchangeRate decimal.Decimal `db:"exchange_rate" json:"exchange_rate"` // Captured, immutable
	Status       TransferStatus  `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// NewTransfer creates a pending Transfer, snapshotting the exchange rate and
// fee percentage in force at creation time.
func NewTransfer(userID int64, amountFCFA, feePercent, exchangeRate decimal.Decimal) *Transfer {
	now := time.Now().UTC()
	return &Transfer{
		UserID:       userID,
		AmountFCFA:   amountFCFA,
		AmountGNF:    ConvertFCFAToGNF(amountFCFA, exchangeRate),
		FeePercent:   feePercent,
		FeeAmount:    FeeFor(amountFCFA, feePercent),
		ExchangeRate: exchangeRate,
		Status:       TransferStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AmountToPay is what the transfer adds to the user's debt: principal plus fee.
func (t *Transfer) AmountToPay() decimal.Decimal {
	return t.AmountFCFA.Add(t.FeeAmount)
}

// IsActive reports whether the transfer counts towards debt totals.
func (t *Transfer) IsActive() bool {
	return t.Status != TransferStatusCancelled
}

var oneHundred = decimal.NewFromInt(100)

// FeeFor computes the fee for an FCFA amount at the given percentage,
// rounded to 2 decimal places.
func FeeFor(amountFCFA, feePercent decimal.Decimal) decimal.Decimal {
	return amountFCFA.Mul(feePercent).Div(oneHundred).Round(2)
}

// ConvertFCFAToGNF converts an FCFA amount at the given rate, rounded to
// 2 decimal places.
func ConvertFCFAToGNF(amountFCFA, rate decimal.Decimal) decimal.Decimal {
	return amountFCFA.Mul(rate).Round(2)
}
