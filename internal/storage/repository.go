package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/settings"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists settings in a single-row table.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)
	logger.Info("SQLite settings store ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements settings.Repository
func (r *SQLiteRepository) Load(ctx context.Context) (settings.Settings, error) {
	row, err := r.queries.GetSettings(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, settings.ErrNotFound
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	s := settings.Settings{
		Locale: row.Locale,
		Preferences: core.FormatPreference{
			CurrencyCode: row.CurrencyCode,
			DisplayMode:  core.DisplayMode(row.DisplayMode),
			SignStyle:    core.SignStyle(row.SignStyle),
			MaxPrecision: int(row.MaxPrecision),
			UseGrouping:  row.UseGrouping,
		},
		Version: row.Version,
	}
	if row.MinPrecision.Valid {
		v := int(row.MinPrecision.Int64)
		s.Preferences.MinPrecision = &v
	}
	return s, nil
}

// Save implements settings.Repository
func (r *SQLiteRepository) Save(ctx context.Context, s settings.Settings) error {
	p := s.Preferences
	row := SettingsRow{
		Locale:       s.Locale,
		CurrencyCode: p.CurrencyCode,
		DisplayMode:  string(p.DisplayMode),
		SignStyle:    string(p.SignStyle),
		MaxPrecision: int64(p.MaxPrecision),
		UseGrouping:  p.UseGrouping,
		Version:      s.Version,
	}
	if p.MinPrecision != nil {
		row.MinPrecision = sql.NullInt64{Int64: int64(*p.MinPrecision), Valid: true}
	}

	if err := r.queries.UpsertSettings(ctx, row); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	r.logger.InfoContext(ctx, "Settings saved to SQLite",
		log.FieldLocale, s.Locale,
		log.FieldCurrency, p.CurrencyCode,
		"version", s.Version)
	return nil
}
