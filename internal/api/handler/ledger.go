// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"transferbook/internal/domain"
	"transferbook/internal/service"
	"transferbook/internal/util"
)

// LedgerHandler handles HTTP requests that mutate the ledger: users,
// transfers and payments.
type LedgerHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateUserRequest represents the request body for user creation.
type CreateUserRequest struct {
	Name  string      `json:"name"`
	Phone string      `json:"phone"`
	Role  domain.Role `json:"role"`
}

// CreateUser handles the create user request.
// POST /users
func (h *LedgerHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleCustomer
	}

	user, err := h.service.CreateUser(r.Context(), req.Name, req.Phone, req.Role)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, user)
}

// GetUser handles the get user request.
// GET /users/{userID}
func (h *LedgerHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, user)
}

// SetUserFeeRequest represents the request body for a fee percentage change.
// A null fee_percent clears the override so the global default applies again.
type SetUserFeeRequest struct {
	FeePercent *decimal.Decimal `json:"fee_percent"`
}

// SetUserFee handles the per-user fee percentage change.
// PATCH /users/{userID}/fee
func (h *LedgerHandler) SetUserFee(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req SetUserFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	if err := h.service.SetUserFeePercent(r.Context(), userID, req.FeePercent, actor); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message": "Fee percentage updated",
		"user_id": userID,
	})
}

// CreateTransferRequest represents the request body for a send.
type CreateTransferRequest struct {
	AmountFCFA decimal.Decimal `json:"amount_fcfa"`
}

// CreateTransfer handles the send money request.
// POST /users/{userID}/transfers
func (h *LedgerHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.AmountFCFA.IsNegative() || req.AmountFCFA.IsZero() {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	transfer, err := h.service.CreateTransfer(r.Context(), userID, req.AmountFCFA)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, transfer)
}

// transferAction runs one of the status transitions identified by the URL.
func (h *LedgerHandler) transferAction(w http.ResponseWriter, r *http.Request,
	action func(transferID, actor int64) (*domain.Transfer, error)) {
	transferID, err := pathID(chi.URLParam(r, "transferID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	transfer, err := action(transferID, actor)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, transfer)
}

// MarkTransferSeen handles POST /transfers/{transferID}/seen.
func (h *LedgerHandler) MarkTransferSeen(w http.ResponseWriter, r *http.Request) {
	h.transferAction(w, r, func(transferID, actor int64) (*domain.Transfer, error) {
		return h.service.MarkTransferSeen(r.Context(), transferID, actor)
	})
}

// ValidateTransfer handles POST /transfers/{transferID}/validate.
func (h *LedgerHandler) ValidateTransfer(w http.ResponseWriter, r *http.Request) {
	h.transferAction(w, r, func(transferID, actor int64) (*domain.Transfer, error) {
		return h.service.ValidateTransfer(r.Context(), transferID, actor)
	})
}

// CancelTransfer handles POST /transfers/{transferID}/cancel.
func (h *LedgerHandler) CancelTransfer(w http.ResponseWriter, r *http.Request) {
	h.transferAction(w, r, func(transferID, actor int64) (*domain.Transfer, error) {
		return h.service.CancelTransfer(r.Context(), transferID, actor)
	})
}

// PurgeCancelledTransfers handles DELETE /transfers/cancelled.
func (h *LedgerHandler) PurgeCancelledTransfers(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	deleted, err := h.service.PurgeCancelledTransfers(r.Context(), actor)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message": "Cancelled transfers purged",
		"deleted": deleted,
	})
}

// ApplyPaymentRequest represents the request body for recording a payment.
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ApplyPayment handles the record payment request.
// POST /users/{userID}/payments
func (h *LedgerHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	payment, err := h.service.ApplyPayment(r.Context(), userID, req.Amount, actor)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, payment)
}

// DeletePayment handles DELETE /payments/{paymentID}.
func (h *LedgerHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(chi.URLParam(r, "paymentID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if err := h.service.DeletePayment(r.Context(), paymentID, actor); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":    "Payment deleted",
		"payment_id": paymentID,
	})
}
