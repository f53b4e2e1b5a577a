// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role determines what a user is allowed to do. Admins validate transfers,
// record payments and change system settings; customers only send.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// User represents an account holder in the transfer ledger.
// FeePercent and DebtThresholdFCFA are per-user overrides; when nil the
// global values from Settings apply.
type User struct {
	ID                int64            `db:"id" json:"id"`
	Name              string           `db:"name" json:"name"`
	Phone             string           `db:"phone" json:"phone"` // Unique
	Role              Role             `db:"role" json:"role"`
	FeePercent        *decimal.Decimal `db:"fee_percent" json:"fee_percent"`
	WalletGNF         decimal.Decimal  `db:"wallet_gnf" json:"wallet_gnf"` // Credited on validated transfers
	DebtThresholdFCFA *decimal.Decimal `db:"debt_threshold_fcfa" json:"debt_threshold_fcfa"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance.
func NewUser(name, phone string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		Name:      name,
		Phone:     phone,
		Role:      role,
		WalletGNF: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EffectiveFeePercent resolves the fee percentage for new transfers:
// the per-user override if set, otherwise the global default.
func (u *User) EffectiveFeePercent(global decimal.Decimal) decimal.Decimal {
	if u.FeePercent != nil {
		return *u.FeePercent
	}
	return global
}

// EffectiveDebtThreshold resolves the credit limit the same way.
func (u *User) EffectiveDebtThreshold(global decimal.Decimal) decimal.Decimal {
	if u.DebtThresholdFCFA != nil {
		return *u.DebtThresholdFCFA
	}
	return global
}
