package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"saldo/internal/core"
)

func newSettingsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved locale and format preference",
	}
	cmd.AddCommand(newSettingsShowCommand(e), newSettingsSetCommand(e))
	return cmd
}

func newSettingsShowCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved settings as JSON",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(e.settings.Current())
		}),
	}
}

func newSettingsSetCommand(e *env) *cobra.Command {
	var (
		display   string
		sign      string
		minDigits int
		maxDigits int
		grouping  bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save settings; --locale and --currency are stored too",
		Example: `  saldoctl settings set --locale it-IT --currency EUR
  saldoctl settings set --display code --max-precision 3`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			next := e.settings.Current()
			if e.locale != "" {
				next.Locale = e.locale
			}
			if e.currency != "" {
				next.Preferences.CurrencyCode = e.currency
			}

			flags := cmd.Flags()
			if flags.Changed("display") {
				next.Preferences.DisplayMode = core.DisplayMode(display)
			}
			if flags.Changed("sign") {
				next.Preferences.SignStyle = core.SignStyle(sign)
			}
			if flags.Changed("max-precision") {
				next.Preferences.MaxPrecision = maxDigits
			}
			if flags.Changed("min-precision") {
				if minDigits < 0 {
					next.Preferences.MinPrecision = nil
				} else {
					next.Preferences.MinPrecision = &minDigits
				}
			}
			if flags.Changed("grouping") {
				next.Preferences.UseGrouping = grouping
			}

			saved, err := e.settings.Update(cmd.Context(), next)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved version %d: %s %s\n",
				saved.Version, saved.Locale, saved.Preferences.CurrencyCode)
			return nil
		}),
	}

	cmd.Flags().StringVar(&display, "display", "", "currency display: symbol, narrowSymbol, code, name")
	cmd.Flags().StringVar(&sign, "sign", "", "negative style: standard, accounting")
	cmd.Flags().IntVar(&minDigits, "min-precision", -1, "minimum fraction digits; negative clears it")
	cmd.Flags().IntVar(&maxDigits, "max-precision", 2, "maximum fraction digits")
	cmd.Flags().BoolVar(&grouping, "grouping", true, "group integer digits")
	return cmd
}
