package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
	"saldo/internal/settings"
)

// setEnv points the CLI at a private SQLite file and the en-US/USD
// defaults, whatever the developer's environment holds.
func setEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "saldo.db")
	t.Setenv("SETTINGS_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", dbPath)
	t.Setenv("AMQP_URL", "")
	t.Setenv("DEFAULT_LOCALE", "en-US")
	t.Setenv("DEFAULT_CURRENCY", "USD")
	t.Setenv("DISPLAY_MODE", "")
	t.Setenv("SIGN_STYLE", "")
	t.Setenv("MIN_PRECISION", "")
	t.Setenv("MAX_PRECISION", "")
	t.Setenv("USE_GROUPING", "")
	t.Setenv("LOG_LEVEL", "")
	return dbPath
}

func runSaldoctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	setEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"parse", "$1,234.56"}, "1234.56"},
		{[]string{"parse", "1 234,56€", "--locale", "fr-FR"}, "1234.56"},
		{[]string{"parse", "1.234,56", "--locale", "de_de"}, "1234.56"},
		{[]string{"parse", "R$ 10,90", "--locale", "pt-BR"}, "10.9"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runSaldoctl(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestParseCommandRejects(t *testing.T) {
	setEnv(t)

	for _, raw := range []string{"abc", "0", "-5", "1.2.3"} {
		t.Run(raw, func(t *testing.T) {
			_, err := runSaldoctl(t, "parse", "--", raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, errUnparsable)
		})
	}
}

func TestFormatCommand(t *testing.T) {
	setEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"format", "1234.56"}, "$1,234.56"},
		{"inferred euro", []string{"format", "1234.56", "--locale", "de-DE"}, "1.234,56\u00a0€"},
		{"accounting", []string{"format", "--sign", "accounting", "--", "-1234.56"}, "($1,234.56)"},
		{"no grouping", []string{"format", "1234.56", "--no-grouping"}, "$1234.56"},
		{"code", []string{"format", "5", "--display", "code"}, "USD\u00a05.00"},
		{"max precision", []string{"format", "1234.56", "--max-precision", "0"}, "$1,235"},
		{"explicit currency", []string{"format", "12.5", "--currency", "gbp"}, "£12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runSaldoctl(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestFormatCommandErrors(t *testing.T) {
	setEnv(t)

	_, err := runSaldoctl(t, "format", "1,5")
	assert.ErrorIs(t, err, errUnparsable)

	_, err = runSaldoctl(t, "format", "1", "--display", "emoji")
	assert.ErrorIs(t, err, core.ErrInvalidDisplayMode)

	_, err = runSaldoctl(t, "format", "1", "--min-precision", "3", "--max-precision", "1")
	assert.ErrorIs(t, err, core.ErrInvalidPrecision)

	_, err = runSaldoctl(t, "format", "1", "--currency", "QQQ")
	assert.ErrorIs(t, err, core.ErrInvalidCurrency)

	_, err = runSaldoctl(t, "format", "1", "--locale", "not a locale!!")
	assert.Error(t, err)
}

func TestSeparatorsCommand(t *testing.T) {
	setEnv(t)

	out, err := runSaldoctl(t, "separators", "--locale", "de-DE", "--json")
	require.NoError(t, err)

	var set core.SeparatorSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, core.SeparatorSet{Decimal: ",", Group: ".", CurrencySymbol: "€"}, set)

	out, err = runSaldoctl(t, "separators")
	require.NoError(t, err)
	assert.Contains(t, out, `decimal:  "."`)
	assert.Contains(t, out, `group:    ","`)
	assert.Contains(t, out, `symbol:   "$"`)

	out, err = runSaldoctl(t, "separators", "--locale", "en-US", "--currency", "EUR", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, "€", set.CurrencySymbol)
}

func TestCurrencyCommand(t *testing.T) {
	setEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"currency"}, "USD"},
		{[]string{"currency", "--locale", "fr-CA"}, "CAD"},
		{[]string{"currency", "--locale", "it-IT"}, "EUR"},
		{[]string{"currency", "--locale", "it-IT", "--currency", "chf"}, "CHF"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runSaldoctl(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	setEnv(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"amount ok", []string{"validate", "amount", "12.50"}, "ok", false},
		{"amount separator", []string{"validate", "amount", "12,50"}, "Use . as the decimal separator", true},
		{"amount italian", []string{"validate", "amount", "12.50", "--locale", "it-IT"}, "Usa , come separatore decimale", true},
		{"required missing", []string{"validate", "required"}, "This field is required", true},
		{"required zero", []string{"validate", "required", "0"}, "This field is required", true},
		{"required zero ok", []string{"validate", "requiredZeroOk", "0"}, "ok", false},
		{"date invalid", []string{"validate", "date", "2025-02-30"}, "Enter a valid date", true},
		{"bounded ok", []string{"validate", "boundedInteger", "15"}, "ok", false},
		{"bounded range", []string{"validate", "boundedInteger", "30", "--max", "28"}, "Enter a number between 1 and 28", true},
		{"bounded fraction", []string{"validate", "boundedInteger", "2.5"}, "Enter a whole number", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runSaldoctl(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestValidateCommandUsageErrors(t *testing.T) {
	setEnv(t)

	_, err := runSaldoctl(t, "validate", "shout", "x")
	assert.ErrorContains(t, err, `unknown rule "shout"`)

	_, err = runSaldoctl(t, "validate", "boundedInteger", "3", "--min", "5", "--max", "1")
	assert.ErrorContains(t, err, "--min 5 exceeds --max 1")
}

func TestSettingsCommands(t *testing.T) {
	setEnv(t)

	out, err := runSaldoctl(t, "settings", "show")
	require.NoError(t, err)
	var current settings.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &current))
	assert.Equal(t, "en-US", current.Locale)
	assert.Equal(t, int64(0), current.Version)

	out, err = runSaldoctl(t, "settings", "set", "--locale", "it_it", "--currency", "eur", "--display", "code", "--max-precision", "3")
	require.NoError(t, err)
	assert.Equal(t, "saved version 1: it-IT EUR\n", out)

	out, err = runSaldoctl(t, "settings", "show")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &current))
	assert.Equal(t, "it-IT", current.Locale)
	assert.Equal(t, "EUR", current.Preferences.CurrencyCode)
	assert.Equal(t, core.DisplayCode, current.Preferences.DisplayMode)
	assert.Equal(t, 3, current.Preferences.MaxPrecision)
	assert.Equal(t, int64(1), current.Version)

	// Later commands pick up the saved locale.
	out, err = runSaldoctl(t, "parse", "1.234,5")
	require.NoError(t, err)
	assert.Equal(t, "1234.5\n", out)
}

func TestSettingsSetRejectsInvalid(t *testing.T) {
	setEnv(t)

	_, err := runSaldoctl(t, "settings", "set", "--sign", "loud")
	assert.ErrorIs(t, err, core.ErrInvalidSignStyle)

	out, err := runSaldoctl(t, "settings", "show")
	require.NoError(t, err)
	var current settings.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &current))
	assert.Equal(t, core.SignStandard, current.Preferences.SignStyle)
}
