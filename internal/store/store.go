package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nivedm/datasentry/internal/dataset"
	"github.com/nivedm/datasentry/internal/deid"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// Store persists de-identification run results in PostgreSQL.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Config contains database configuration
type Config struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// Run is one persisted dataset de-identification run.
type Run struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	FileName     string          `db:"file_name" json:"file_name"`
	Strategy     deid.Strategy   `db:"strategy" json:"strategy"`
	Rows         int             `db:"row_count" json:"rows"`
	Columns      int             `db:"column_count" json:"columns"`
	TP           int             `db:"tp" json:"tp"`
	TN           int             `db:"tn" json:"tn"`
	FP           int             `db:"fp" json:"fp"`
	FN           int             `db:"fn" json:"fn"`
	Replacements int             `db:"replacements" json:"replacements"`
	ColumnCounts json.RawMessage `db:"column_counts" json:"column_counts"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Counts reassembles the run's outcome counts.
func (r *Run) Counts() dataset.Counts {
	return dataset.Counts{TP: r.TP, TN: r.TN, FP: r.FP, FN: r.FN}
}

const schema = `
CREATE TABLE IF NOT EXISTS deid_runs (
	id            UUID PRIMARY KEY,
	file_name     TEXT NOT NULL,
	strategy      TEXT NOT NULL,
	row_count     INTEGER NOT NULL,
	column_count  INTEGER NOT NULL,
	tp            INTEGER NOT NULL,
	tn            INTEGER NOT NULL,
	fp            INTEGER NOT NULL,
	fn            INTEGER NOT NULL,
	replacements  INTEGER NOT NULL,
	column_counts JSONB NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_deid_runs_created_at ON deid_runs (created_at DESC);
`

// NewStore connects to PostgreSQL and ensures the runs table exists.
func NewStore(config *Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	logger.Info("Run store initialized successfully",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)),
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Int("max_idle_conns", config.MaxIdleConns))

	return store, nil
}

// initialize checks the connection and applies the schema
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

// SaveRun persists a completed run.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.ColumnCounts == nil {
		run.ColumnCounts = json.RawMessage("{}")
	}

	query := `
		INSERT INTO deid_runs (id, file_name, strategy, row_count, column_count, tp, tn, fp, fn, replacements, column_counts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		run.ID,
		run.FileName,
		run.Strategy,
		run.Rows,
		run.Columns,
		run.TP,
		run.TN,
		run.FP,
		run.FN,
		run.Replacements,
		run.ColumnCounts,
	).Scan(&run.CreatedAt)

	if err != nil {
		s.logger.Error("Failed to save run",
			zap.Error(err),
			zap.String("run_id", run.ID.String()))
		return fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Debug("Run saved",
		zap.String("run_id", run.ID.String()),
		zap.String("file_name", run.FileName))

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	query := `SELECT * FROM deid_runs WHERE id = $1`

	if err := s.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}

	var runs []*Run
	query := `SELECT * FROM deid_runs ORDER BY created_at DESC LIMIT $1`

	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// maskDatabaseURL masks credentials in a database URL for logging
func maskDatabaseURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
