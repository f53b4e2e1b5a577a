// internal/domain/report.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport is the reconciliation record for one user and one calendar day.
// All figures are in FCFA. A negative RemainingDebt means the user is in
// credit.
type DailyReport struct {
	UserID        int64           `json:"user_id"`
	Date          time.Time       `json:"date"` // Midnight in the reporting timezone
	PreviousDebt  decimal.Decimal `json:"previous_debt"`
	TotalSent     decimal.Decimal `json:"total_sent"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
}

// BuildDailyReport assembles a report from the day's flows and the debt
// carried in from prior days:
//
//	remainingDebt = previousDebt + totalSent + totalFees - totalPaid
func BuildDailyReport(userID int64, date time.Time, previousDebt, totalSent, totalFees, totalPaid decimal.Decimal) DailyReport {
	return DailyReport{
		UserID:        userID,
		Date:          date,
		PreviousDebt:  previousDebt,
		TotalSent:     totalSent,
		TotalFees:     totalFees,
		TotalPaid:     totalPaid,
		RemainingDebt: previousDebt.Add(totalSent).Add(totalFees).Sub(totalPaid),
	}
}
