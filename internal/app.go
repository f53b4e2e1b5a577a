// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "transferbook/internal/api"
	"transferbook/internal/api/handler"
	"transferbook/internal/config"
	"transferbook/internal/repository"
	"transferbook/internal/repository/postgres"
	"transferbook/internal/service"
	"transferbook/internal/util"
	"transferbook/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository     repository.UserRepository
	TransferRepository repository.TransferRepository
	PaymentRepository  repository.PaymentRepository
	SettingsRepository repository.SettingsRepository

	// Services
	LedgerService   service.LedgerService
	ReportService   service.ReportService
	SettingsService service.SettingsService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Apply migrations when a directory is configured
	if app.Config.MigrationsDir != "" {
		if err := db.ApplyMigrations(ctx, app.DB, app.Config.MigrationsDir); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.Logger.Info("Database migrations applied.", "dir", app.Config.MigrationsDir)
	}

	// 5. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.TransferRepository = postgres.NewTransferRepository(app.DB)
	app.PaymentRepository = postgres.NewPaymentRepository(app.DB)
	app.SettingsRepository = postgres.NewSettingsRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.TransferRepository,
		app.PaymentRepository,
		app.SettingsRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.ReportService = service.NewReportService(
		app.DB,
		app.UserRepository,
		app.TransferRepository,
		app.PaymentRepository,
		app.Config.Location,
	)
	app.SettingsService = service.NewSettingsService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.SettingsRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.Logger)
	reportHandler := handler.NewReportHandler(app.ReportService, app.Logger)
	settingsHandler := handler.NewSettingsHandler(app.SettingsService, app.Logger)
	app.HTTPHandler = router.NewRouter(ledgerHandler, reportHandler, settingsHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
