// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"transferbook/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	ledgerHandler *handler.LedgerHandler,
	reportHandler *handler.ReportHandler,
	settingsHandler *handler.SettingsHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", ledgerHandler.CreateUser)
		r.Get("/{userID}", ledgerHandler.GetUser)
		r.Patch("/{userID}/fee", ledgerHandler.SetUserFee)

		r.Post("/{userID}/transfers", ledgerHandler.CreateTransfer)
		r.Get("/{userID}/transfers", reportHandler.ListTransfers)

		r.Post("/{userID}/payments", ledgerHandler.ApplyPayment)
		r.Get("/{userID}/payments", reportHandler.ListPayments)

		r.Get("/{userID}/reports/daily", reportHandler.DailyReport)
		r.Get("/{userID}/reports", reportHandler.RangeReport)
	})

	r.Route("/transfers", func(r chi.Router) {
		r.Post("/{transferID}/seen", ledgerHandler.MarkTransferSeen)
		r.Post("/{transferID}/validate", ledgerHandler.ValidateTransfer)
		r.Post("/{transferID}/cancel", ledgerHandler.CancelTransfer)
		r.Delete("/cancelled", ledgerHandler.PurgeCancelledTransfers)
	})

	r.Delete("/payments/{paymentID}", ledgerHandler.DeletePayment)

	r.Get("/settings", settingsHandler.GetSettings)
	r.Put("/settings", settingsHandler.UpdateSettings)

	return r
}
