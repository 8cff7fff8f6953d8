package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Database DatabaseConfig
	Digest   DigestConfig
	MongoDB  MongoDBConfig
	Sheets   SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// TelegramConfig contains credentials and options for the Telegram Bot API.
// The owner chat is the single operator allowed to issue commands.
type TelegramConfig struct {
	BotToken      string
	OwnerChatID   int64
	BaseURL       string
	WebhookSecret string
	ExportDir     string
}

// DatabaseConfig locates the sqlite database file.
type DatabaseConfig struct {
	Path string
}

// DigestConfig holds scheduler-related settings for the daily digest.
type DigestConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds optional settings for the digest archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig holds optional settings for the spreadsheet mirror.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	ownerChatID, err := parseOwnerChatID(os.Getenv("TELEGRAM_OWNER_CHAT_ID"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Telegram: TelegramConfig{
			BotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
			OwnerChatID:   ownerChatID,
			BaseURL:       getenvWithDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
			WebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
			ExportDir:     getenvWithDefault("EXPORT_DIR", os.TempDir()),
		},
		Database: DatabaseConfig{
			Path: getenvWithDefault("DB_PATH", "rabbits.db"),
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 8 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Belgrade"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "rabbitry"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_MIRROR_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. The
// Mongo archive and Sheets mirror are optional and validated only when
// partially configured.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Telegram.BotToken == "":
		return errors.New("TELEGRAM_BOT_TOKEN must be provided")
	case c.Telegram.OwnerChatID == 0:
		return errors.New("TELEGRAM_OWNER_CHAT_ID must be provided")
	case c.Telegram.BaseURL == "":
		return errors.New("TELEGRAM_BASE_URL must not be empty")
	}

	if c.Database.Path == "" {
		return errors.New("DB_PATH must be provided")
	}

	if c.Digest.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if c.Digest.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_MIRROR_ID is set")
	}

	return nil
}

func parseOwnerChatID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("TELEGRAM_OWNER_CHAT_ID must be numeric: %w", err)
	}
	return id, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
