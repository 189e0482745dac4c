package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type SettingsRow struct {
	Locale       string
	CurrencyCode string
	DisplayMode  string
	SignStyle    string
	MinPrecision sql.NullInt64
	MaxPrecision int64
	UseGrouping  bool
	Version      int64
}

const getSettings = `-- name: GetSettings :one
SELECT locale, currency_code, display_mode, sign_style, min_precision, max_precision, use_grouping, version
FROM settings
WHERE id = 1
`

func (q *Queries) GetSettings(ctx context.Context) (SettingsRow, error) {
	row := q.db.QueryRowContext(ctx, getSettings)
	var i SettingsRow
	err := row.Scan(
		&i.Locale,
		&i.CurrencyCode,
		&i.DisplayMode,
		&i.SignStyle,
		&i.MinPrecision,
		&i.MaxPrecision,
		&i.UseGrouping,
		&i.Version,
	)
	return i, err
}

const upsertSettings = `-- name: UpsertSettings :exec
INSERT INTO settings (id, locale, currency_code, display_mode, sign_style, min_precision, max_precision, use_grouping, version, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (id) DO UPDATE SET
    locale = excluded.locale,
    currency_code = excluded.currency_code,
    display_mode = excluded.display_mode,
    sign_style = excluded.sign_style,
    min_precision = excluded.min_precision,
    max_precision = excluded.max_precision,
    use_grouping = excluded.use_grouping,
    version = excluded.version,
    updated_at = CURRENT_TIMESTAMP
`

func (q *Queries) UpsertSettings(ctx context.Context, arg SettingsRow) error {
	_, err := q.db.ExecContext(ctx, upsertSettings,
		arg.Locale,
		arg.CurrencyCode,
		arg.DisplayMode,
		arg.SignStyle,
		arg.MinPrecision,
		arg.MaxPrecision,
		arg.UseGrouping,
		arg.Version,
	)
	return err
}
