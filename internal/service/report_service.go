// internal/service/report_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"transferbook/internal/domain"
	"transferbook/internal/repository"
	"transferbook/internal/util"

	"github.com/shopspring/decimal"
)

// ReportService computes per-user, per-day debt reconciliation from the
// transfer and payment ledger. All operations are pure reads: reports are
// derived from rows on every call and never mutate stored balances.
type ReportService interface {
	// DailyReport produces the reconciliation record for one calendar day in
	// the reporting timezone. Days without activity carry the previous debt
	// forward with zero flows.
	DailyReport(ctx context.Context, userID int64, date time.Time) (*domain.DailyReport, error)
	// RangeReport produces one report per day over [from, to], inclusive.
	RangeReport(ctx context.Context, userID int64, from, to time.Time) ([]domain.DailyReport, error)
	// ListTransfers retrieves a paginated transfer history for a user, newest first.
	ListTransfers(ctx context.Context, userID int64, limit, offset int) ([]domain.Transfer, int64, error)
	// ListPayments retrieves a paginated payment history for a user, newest first.
	ListPayments(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error)
}

// reportService implements the ReportService interface.
type reportService struct {
	dbExecutor   repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo     repository.UserRepository
	transferRepo repository.TransferRepository
	paymentRepo  repository.PaymentRepository
	location     *time.Location // Reporting timezone; day boundaries are computed here
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	transferRepo repository.TransferRepository,
	paymentRepo repository.PaymentRepository,
	location *time.Location,
) ReportService {
	return &reportService{
		dbExecutor:   dbExecutor,
		userRepo:     userRepo,
		transferRepo: transferRepo,
		paymentRepo:  paymentRepo,
		location:     location,
	}
}

// dayStart returns midnight, in the reporting timezone, of the calendar day
// named by date's year, month and day. The date's own location is ignored: a
// query for 2026-01-05 means that day in the reporting timezone regardless of
// how the caller parsed it, so a timezone west of UTC does not shift the
// request to the previous day.
func (s *reportService) dayStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.location)
}

// bucketDay returns midnight of the reporting-timezone day containing the
// instant ts. Unlike dayStart this converts first, because stored timestamps
// are instants, not calendar days.
func (s *reportService) bucketDay(ts time.Time) time.Time {
	t := ts.In(s.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.location)
}

// debtBefore computes the debt carried into the given instant: everything the
// user's active transfers added to their account (principal plus captured
// fees) minus everything they paid, over all prior history. Computing the
// carry-forward in closed form makes "remaining debt of day N equals previous
// debt of day N+1" hold by construction.
func (s *reportService) debtBefore(ctx context.Context, userID int64, cutoff time.Time) (decimal.Decimal, error) {
	sent, fees, err := s.transferRepo.SumActiveByUserBefore(ctx, s.dbExecutor, userID, cutoff)
	if err != nil {
		return decimal.Zero, fmt.Errorf("debt before %s: %w", cutoff, err)
	}
	paid, err := s.paymentRepo.SumByUserBefore(ctx, s.dbExecutor, userID, cutoff)
	if err != nil {
		return decimal.Zero, fmt.Errorf("debt before %s: %w", cutoff, err)
	}
	return sent.Add(fees).Sub(paid), nil
}

// DailyReport produces the reconciliation record for one user and one day.
func (s *reportService) DailyReport(ctx context.Context, userID int64, date time.Time) (*domain.DailyReport, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}

	dayStart := s.dayStart(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	previousDebt, err := s.debtBefore(ctx, userID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}

	totalSent, totalFees, err := s.transferRepo.SumActiveByUserWithin(ctx, s.dbExecutor, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("daily report: failed to sum transfers: %w", err)
	}
	totalPaid, err := s.paymentRepo.SumByUserWithin(ctx, s.dbExecutor, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("daily report: failed to sum payments: %w", err)
	}

	report := domain.BuildDailyReport(userID, dayStart, previousDebt, totalSent, totalFees, totalPaid)
	return &report, nil
}

// RangeReport produces a report for every day in [from, to], carrying
// remaining debt from each day into the next. Transfers and payments for the
// whole range are fetched once and bucketed per day.
func (s *reportService) RangeReport(ctx context.Context, userID int64, from, to time.Time) ([]domain.DailyReport, error) {
	rangeStart := s.dayStart(from)
	lastStart := s.dayStart(to)
	rangeEnd := lastStart.AddDate(0, 0, 1)
	if rangeStart.After(lastStart) {
		return nil, fmt.Errorf("range report: from is after to: %w", util.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("range report: %w", err)
	}

	previousDebt, err := s.debtBefore(ctx, userID, rangeStart)
	if err != nil {
		return nil, fmt.Errorf("range report: %w", err)
	}

	transfers, err := s.transferRepo.ListActiveByUserWithin(ctx, s.dbExecutor, userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("range report: %w", err)
	}
	payments, err := s.paymentRepo.ListByUserWithin(ctx, s.dbExecutor, userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("range report: %w", err)
	}

	sentByDay := map[time.Time]decimal.Decimal{}
	feesByDay := map[time.Time]decimal.Decimal{}
	paidByDay := map[time.Time]decimal.Decimal{}
	for _, t := range transfers {
		day := s.bucketDay(t.CreatedAt)
		sentByDay[day] = sentByDay[day].Add(t.AmountFCFA)
		feesByDay[day] = feesByDay[day].Add(t.FeeAmount)
	}
	for _, p := range payments {
		day := s.bucketDay(p.CreatedAt)
		paidByDay[day] = paidByDay[day].Add(p.Amount)
	}

	var reports []domain.DailyReport
	for day := rangeStart; !day.After(lastStart); day = day.AddDate(0, 0, 1) {
		report := domain.BuildDailyReport(userID, day, previousDebt, sentByDay[day], feesByDay[day], paidByDay[day])
		reports = append(reports, report)
		previousDebt = report.RemainingDebt
	}
	return reports, nil
}

// ListTransfers retrieves a paginated list of transfers for a specific user.
func (s *reportService) ListTransfers(ctx context.Context, userID int64, limit, offset int) ([]domain.Transfer, int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	transfers, totalCount, err := s.transferRepo.ListByUser(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, totalCount, nil
}

// ListPayments retrieves a paginated list of payments for a specific user.
func (s *reportService) ListPayments(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	payments, totalCount, err := s.paymentRepo.ListByUser(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, totalCount, nil
}
