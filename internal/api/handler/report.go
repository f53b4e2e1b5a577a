// internal/api/handler/report.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"transferbook/internal/api/types"
	"transferbook/internal/domain"
	"transferbook/internal/service"
	"transferbook/internal/util"
)

// dateLayout is the calendar-day format accepted in query parameters.
const dateLayout = "2006-01-02"

// ReportHandler handles HTTP requests for reconciliation reports and ledger
// history. All endpoints are read-only.
type ReportHandler struct {
	service service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  logger,
	}
}

// DailyReport handles the daily reconciliation report request.
// GET /users/{userID}/reports/daily?date=2006-01-02
func (h *ReportHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	report, err := h.service.DailyReport(r.Context(), userID, date)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, report)
}

// RangeReport handles the multi-day reconciliation report request.
// GET /users/{userID}/reports?from=2006-01-02&to=2006-01-09
func (h *ReportHandler) RangeReport(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	reports, err := h.service.RangeReport(r.Context(), userID, from, to)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"reports": reports,
	})
}

// ListTransfers handles the transfer history request.
// GET /users/{userID}/transfers
func (h *ReportHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	limit, offset := pagination(r)

	transfers, totalCount, err := h.service.ListTransfers(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.Transfer]{
		Data:       transfers,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// ListPayments handles the payment history request.
// GET /users/{userID}/payments
func (h *ReportHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	limit, offset := pagination(r)

	payments, totalCount, err := h.service.ListPayments(r.Context(), userID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.Payment]{
		Data:       payments,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
