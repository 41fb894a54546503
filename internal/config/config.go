package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Storage backends for completed registrations
const (
	StorageSheets   = "sheets"
	StoragePostgres = "postgres"
)

// Default user-facing texts
const (
	DefaultWelcome    = "Это бот для регистрации Tripix Parser — расширения, которое помогает удобно собирать данные о турах.\nЧтобы начать, пожалуйста, введите название вашего турагентства."
	DefaultAskContact = "Отлично! Теперь введите ваш номер телефона."
	DefaultSuccess    = "Спасибо, вы зарегистрированы!"
	DefaultFailure    = "Произошла ошибка при регистрации. Пожалуйста, попробуйте еще раз."
	DefaultCancelled  = "Регистрация отменена."
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	LogLevel    zapcore.Level
	PollTimeout time.Duration
	Storage     string
	Sheets      SheetsConfig
	Database    DatabaseConfig
	Messages    MessagesConfig

	WriteTimeout time.Duration
	SessionTTL   time.Duration
}

// SheetsConfig holds Google Sheets settings
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON string
	Range           string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// MessagesConfig holds the texts sent at each registration step
type MessagesConfig struct {
	Welcome    string
	AskContact string
	Success    string
	Failure    string
	Cancelled  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Storage:  strings.ToLower(getEnv("REGISTRATION_STORAGE", StorageSheets)),
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
			CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
			Range:           getEnv("GOOGLE_SHEET_RANGE", "Sheet1"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "registrar"),
			User:     getEnv("DB_USER", "registrar"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Messages: MessagesConfig{
			Welcome:    getEnv("MSG_WELCOME", DefaultWelcome),
			AskContact: getEnv("MSG_ASK_CONTACT", DefaultAskContact),
			Success:    getEnv("MSG_SUCCESS", DefaultSuccess),
			Failure:    getEnv("MSG_FAILURE", DefaultFailure),
			Cancelled:  getEnv("MSG_CANCELLED", DefaultCancelled),
		},
	}

	var err error
	if cfg.LogLevel, err = zapcore.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is not a valid level: %w", err)
	}
	if cfg.PollTimeout, err = getDuration("POLL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getDuration("WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields for the selected storage
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	switch c.Storage {
	case StorageSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("GOOGLE_SHEET_ID is required")
		}
		if c.Sheets.CredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_JSON is required")
		}
		var creds map[string]interface{}
		if err := json.Unmarshal([]byte(c.Sheets.CredentialsJSON), &creds); err != nil {
			return fmt.Errorf("GOOGLE_CREDENTIALS_JSON is not a JSON object: %w", err)
		}
		if creds == nil {
			return fmt.Errorf("GOOGLE_CREDENTIALS_JSON is not a JSON object")
		}
		if c.Sheets.Range == "" {
			return fmt.Errorf("GOOGLE_SHEET_RANGE must not be empty")
		}
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("REGISTRATION_STORAGE must be %q or %q, got %q", StorageSheets, StoragePostgres, c.Storage)
	}

	if c.PollTimeout <= 0 {
		return fmt.Errorf("POLL_TIMEOUT must be positive")
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("WRITE_TIMEOUT must not be negative")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}

	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}
