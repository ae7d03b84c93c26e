package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	BotToken    string
	OperatorIDs []int64
	AppealTypes bool
	SessionTTL  time.Duration

	StoreDriver string
	CSVPath     string
	SQLitePath  string
	DBUser      string
	DBPassword  string
	DBName      string
	DBHost      string
	DBPort      string

	SheetsID              string
	SheetsRange           string
	SheetsCredentialsFile string
	SheetsCredentialsJSON string
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Info("config.Load: no .env file found - using env variables")
	}

	cfg := &Config{
		BotToken:              os.Getenv("BOT_TOKEN"),
		OperatorIDs:           ParseOperatorIDs(os.Getenv("OPERATOR_IDS")),
		StoreDriver:           strings.ToLower(os.Getenv("STORE_DRIVER")),
		CSVPath:               os.Getenv("CSV_PATH"),
		SQLitePath:            os.Getenv("SQLITE_PATH"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                os.Getenv("DB_PORT"),
		SheetsID:              os.Getenv("GOOGLE_SHEETS_ID"),
		SheetsRange:           os.Getenv("GOOGLE_SHEETS_RANGE"),
		SheetsCredentialsFile: os.Getenv("GOOGLE_SHEETS_JSON"),
		SheetsCredentialsJSON: os.Getenv("GOOGLE_SHEETS_JSON_CONTENT"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("config.Load: BOT_TOKEN is required")
	}

	if raw := os.Getenv("APPEAL_TYPES_ENABLED"); raw != "" {
		cfg.AppealTypes, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config.Load: APPEAL_TYPES_ENABLED: %w", err)
		}
	}

	cfg.SessionTTL = 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		cfg.SessionTTL, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config.Load: SESSION_TTL: %w", err)
		}
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreCSV
	}

	switch cfg.StoreDriver {
	case StoreCSV:
		if cfg.CSVPath == "" {
			cfg.CSVPath = "registrations.csv"
		}
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = "appeals.db"
		}
	case StorePostgres:
		if cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("config.Load: DB_USER, DB_PASSWORD, DB_NAME are required")
		}
		if cfg.DBHost == "" {
			cfg.DBHost = "localhost"
		}
		if cfg.DBPort == "" {
			cfg.DBPort = "5432"
		}
	default:
		return nil, fmt.Errorf("config.Load: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.SheetsRange == "" {
		cfg.SheetsRange = "Sheet1!A1"
	}

	return cfg, nil
}

// ParseOperatorIDs reads a comma separated id list. Entries that are not
// integers are skipped.
func ParseOperatorIDs(raw string) []int64 {
	var ids []int64
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			slog.Warn("config: skipping invalid operator id", "value", p)
			continue
		}
		ids = append(ids, id)
	}

	return ids
}
