package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"registrar/internal/config"
	"registrar/internal/handler"
	"registrar/internal/middleware"
	"registrar/internal/repository"
	"registrar/internal/repository/memory"
	"registrar/internal/repository/postgres"
	"registrar/internal/repository/sheets"
	"registrar/internal/service"
	"registrar/internal/telegram"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// shutdownGrace bounds how long in-flight writes may run after a stop signal
const shutdownGrace = 10 * time.Second

func main() {
	// Initialize logger
	logConfig := zap.NewProductionConfig()
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting registration bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logConfig.Level.SetLevel(cfg.LogLevel)

	logger.Info("Configuration loaded successfully", zap.String("storage", cfg.Storage))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize registration storage
	writer, closeWriter, err := newRegistrationRepo(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize registration storage", zap.Error(err))
	}
	defer closeWriter()

	// Initialize services
	sessions := memory.NewSessionRepo()
	conversation := service.NewConversationService(
		sessions,
		writer,
		service.Messages{
			Welcome:    cfg.Messages.Welcome,
			AskContact: cfg.Messages.AskContact,
			Success:    cfg.Messages.Success,
			Failure:    cfg.Messages.Failure,
			Cancelled:  cfg.Messages.Cancelled,
		},
		cfg.WriteTimeout,
		logger,
	)

	// Initialize Telegram bot
	bot, err := tele.NewBot(telegram.Settings(
		cfg.BotToken,
		&tele.LongPoller{Timeout: cfg.PollTimeout},
		logger,
	))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Middleware must be installed before handlers are registered
	bot.Use(middleware.LoggingMiddleware(logger))

	h := handler.NewHandler(ctx, bot, conversation, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Evict abandoned registrations in background
	if cfg.SessionTTL > 0 {
		janitor := service.NewSessionJanitor(sessions, cfg.SessionTTL, logger)
		go janitor.Run(ctx, sweepInterval(cfg.SessionTTL))
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown: Stop waits for queued updates, writes still running
	// after the grace period are cancelled
	timer := time.AfterFunc(shutdownGrace, cancel)
	bot.Stop()
	timer.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// newRegistrationRepo builds the writer for the configured storage
func newRegistrationRepo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.RegistrationRepository, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := connectDatabase(cfg.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("Database connection established")

		if err := runMigrations(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}

		return postgres.NewRegistrationRepo(db), func() { db.Close() }, nil

	default:
		srv, err := sheets.NewService(ctx, []byte(cfg.Sheets.CredentialsJSON))
		if err != nil {
			return nil, nil, err
		}

		logger.Info("Google Sheets API initialized",
			zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID),
			zap.String("range", cfg.Sheets.Range),
		)

		repo := sheets.NewRegistrationRepo(srv, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)
		return repo, func() {}, nil
	}
}

// sweepInterval picks how often idle sessions are checked
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < time.Hour {
		return ttl
	}
	return time.Hour
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations creates the registrations table
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
