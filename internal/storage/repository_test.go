package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
	"saldo/internal/settings"
)

func newTestRepository(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "saldo.db")
	repo, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestLoadEmpty(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, settings.ErrNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	minPrecision := 1
	want := settings.Settings{
		Locale: "de-DE",
		Preferences: core.FormatPreference{
			CurrencyCode: "EUR",
			DisplayMode:  core.DisplayCode,
			SignStyle:    core.SignAccounting,
			MinPrecision: &minPrecision,
			MaxPrecision: 3,
			UseGrouping:  false,
		},
		Version: 2,
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.Preferences.MinPrecision = nil
	want.Version = 3
	require.NoError(t, repo.Save(ctx, want))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.Preferences.MinPrecision)
	assert.Equal(t, int64(3), got.Version)
}

func TestReopenKeepsSettings(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), settings.Defaults("it-IT", "EUR")))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "it-IT", got.Locale)
	assert.Equal(t, "EUR", got.Preferences.CurrencyCode)
}

func TestServiceOverSQLite(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	svc, err := settings.NewService(ctx, repo, settings.Defaults("en-US", "USD"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, settings.Defaults("ja-JP", "JPY"))
	require.NoError(t, err)

	again, err := settings.NewService(ctx, repo, settings.Defaults("en-US", "USD"))
	require.NoError(t, err)
	assert.Equal(t, "ja-JP", again.Locale())
	assert.Equal(t, int64(1), again.Current().Version)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	_, path := newTestRepository(t)

	version, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
