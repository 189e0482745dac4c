package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"saldo/internal/core"
	"saldo/internal/locale"
)

var errUnparsable = errors.New("not a valid amount")

// currencyCode normalises code and checks it is a known ISO-4217 code.
func currencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !core.IsCurrencyCode(code) {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidCurrency, code)
	}
	if _, err := locale.XText().CurrencyDigits(code); err != nil {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidCurrency, code)
	}
	return code, nil
}

func newParseCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <value>",
		Short: "Parse a locale-formatted amount into a canonical number",
		Example: `  saldoctl parse '$1,234.56' --locale en-US
  saldoctl parse '1 234,56 €' --locale fr-FR`,
		Args: cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			loc := e.Locale()
			amount, ok := e.engine.Parse(args[0], loc)
			if !ok {
				return fmt.Errorf("%q for locale %s: %w", args[0], loc, errUnparsable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(amount, 'f', -1, 64))
			return nil
		}),
	}
}

func newFormatCommand(e *env) *cobra.Command {
	var (
		display    string
		sign       string
		minDigits  int
		maxDigits  int
		noGrouping bool
	)

	cmd := &cobra.Command{
		Use:   "format <amount>",
		Short: "Format a canonical amount for a locale",
		Long: `Format renders a canonical amount (digits, optional '-', '.' as the
decimal point) using the saved preferences, overridden by flags.`,
		Example: `  saldoctl format 1234.56 --locale de-DE
  saldoctl format -- -42 --sign accounting`,
		Args: cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("%q: %w", args[0], errUnparsable)
			}
			amount, _ := d.Float64()

			prefs := e.Preferences()
			if display != "" {
				prefs.DisplayMode = core.DisplayMode(display)
			}
			if sign != "" {
				prefs.SignStyle = core.SignStyle(sign)
			}
			if maxDigits >= 0 {
				prefs.MaxPrecision = maxDigits
				if prefs.MinPrecision != nil && *prefs.MinPrecision > maxDigits {
					prefs.MinPrecision = nil
				}
			}
			if minDigits >= 0 {
				prefs.MinPrecision = &minDigits
			}
			if noGrouping {
				prefs.UseGrouping = false
			}
			if err := prefs.Validate(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), e.engine.Format(amount, e.Locale(), prefs))
			return nil
		}),
	}

	cmd.Flags().StringVar(&display, "display", "", "currency display: symbol, narrowSymbol, code, name")
	cmd.Flags().StringVar(&sign, "sign", "", "negative style: standard, accounting")
	cmd.Flags().IntVar(&minDigits, "min-precision", -1, "minimum fraction digits (default: currency digits)")
	cmd.Flags().IntVar(&maxDigits, "max-precision", -1, "maximum fraction digits (default: saved)")
	cmd.Flags().BoolVar(&noGrouping, "no-grouping", false, "disable digit grouping")

	return cmd
}

func newSeparatorsCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "separators",
		Short: "Show the decimal and group separators and the currency symbol",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			loc := e.Locale()
			set := e.engine.Separators(loc)
			if e.currency != "" {
				set = e.engine.SeparatorsFor(loc, e.currency)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(set)
			}
			fmt.Fprintf(out, "decimal:  %q\n", set.Decimal)
			fmt.Fprintf(out, "group:    %q\n", set.Group)
			fmt.Fprintf(out, "symbol:   %q\n", set.CurrencySymbol)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCurrencyCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "currency",
		Short: "Show the effective currency for a locale",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			loc := e.Locale()
			fmt.Fprintln(cmd.OutOrStdout(), e.engine.EffectiveCurrency(loc, e.Preferences().CurrencyCode))
			return nil
		}),
	}
}
