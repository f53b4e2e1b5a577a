// internal/api/handler/settings.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"transferbook/internal/service"
	"transferbook/internal/util"
)

// SettingsHandler handles HTTP requests for the system settings row.
type SettingsHandler struct {
	service service.SettingsService
	logger  *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: svc,
		logger:  logger,
	}
}

// GetSettings handles GET /settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, settings)
}

// UpdateSettingsRequest represents the request body for a settings update.
// Version must match the version the caller last read.
type UpdateSettingsRequest struct {
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	MainBalanceGNF    decimal.Decimal `json:"main_balance_gnf"`
	FeePercent        decimal.Decimal `json:"fee_percent"`
	DebtThresholdFCFA decimal.Decimal `json:"debt_threshold_fcfa"`
	Version           int64           `json:"version"`
}

// UpdateSettings handles PUT /settings.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	settings, err := h.service.Update(r.Context(), actor, service.SettingsUpdate{
		ExchangeRate:      req.ExchangeRate,
		MainBalanceGNF:    req.MainBalanceGNF,
		FeePercent:        req.FeePercent,
		DebtThresholdFCFA: req.DebtThresholdFCFA,
		Version:           req.Version,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, settings)
}
