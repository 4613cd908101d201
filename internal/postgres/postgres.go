package postgres

import (
	"context"
	"database/sql"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// DB wraps sqlx.DB with query tracing
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Querier interface defines the read operations the repositories use.
// Both *sqlx.DB and *sqlx.Tx implement these methods
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// NewDB creates a new DB instance. The pool connects lazily so the service
// can start before the database is reachable.
func NewDB(config *config.Configuration, logger *logger.Logger) (*DB, error) {
	dsn := config.Postgres.GetDSN()
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(config.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(config.Postgres.ConnMaxLifetime)

	return &DB{DB: db, logger: logger}, nil
}

// NewFromSQLX wraps an existing connection, used with sqlmock in tests
func NewFromSQLX(db *sqlx.DB, logger *logger.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

// RegisterHooks closes the pool on shutdown
func RegisterHooks(lc fx.Lifecycle, db *DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// GetQuerier returns a traced querier over the pool
func (db *DB) GetQuerier(ctx context.Context) Querier {
	return NewTracedQuerier(db.DB, db.logger)
}
