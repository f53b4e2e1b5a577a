// internal/domain/settings.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single system-wide configuration row: the FCFA->GNF
// exchange rate, the admin's GNF float, and the global fee/threshold
// defaults. It is versioned so concurrent updates fail instead of silently
// losing writes, and computations always receive a fetched snapshot rather
// than reading it as ambient state.
type Settings struct {
	ID                int64           `db:"id" json:"id"`
	ExchangeRate      decimal.Decimal `db:"exchange_rate" json:"exchange_rate"` // GNF per FCFA
	MainBalanceGNF    decimal.Decimal `db:"main_balance_gnf" json:"main_balance_gnf"`
	FeePercent        decimal.Decimal `db:"fee_percent" json:"fee_percent"`
	DebtThresholdFCFA decimal.Decimal `db:"debt_threshold_fcfa" json:"debt_threshold_fcfa"`
	Version           int64           `db:"version" json:"version"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}
