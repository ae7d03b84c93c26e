package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sayyorqabul/appealbot/internal/config"
)

type DB struct {
	Conn *sqlx.DB
}

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

func New(cfg *config.Config) (*DB, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

		return Open("postgres", dsn)

	case config.StoreSQLite:
		return Open("sqlite", cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("db.New: driver %q is not a database", cfg.StoreDriver)
	}
}

func Open(driver, dsn string) (*DB, error) {
	dbConn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db.Open: cannot connect to database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows a single writer.
		dbConn.SetMaxOpenConns(1)
	} else {
		dbConn.SetMaxOpenConns(20)
		dbConn.SetMaxIdleConns(5)
		dbConn.SetConnMaxLifetime(60 * time.Minute)
	}

	return &DB{Conn: dbConn}, nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}
