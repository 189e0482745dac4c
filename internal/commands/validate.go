package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"saldo/internal/i18n"
	"saldo/internal/validation"
)

var rules = []string{"required", "requiredZeroOk", "date", "amount", "boundedInteger"}

func newValidateCommand(e *env) *cobra.Command {
	var min, max int

	cmd := &cobra.Command{
		Use:   "validate <rule> [value]",
		Short: "Check a value against a form rule",
		Long: fmt.Sprintf(`Validate applies one rule to value and prints "ok" or the message for
the active locale. It exits non-zero when the rule fails.

Rules: %v`, rules),
		Example: `  saldoctl validate amount '12,50' --locale it-IT
  saldoctl validate boundedInteger 15 --min 1 --max 28`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: rules,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}

			loc := e.Locale()
			r := validation.NewRules(e.engine, validation.StaticLocale(loc), i18n.NewCatalog(loc),
				validation.WithLogger(e.logger))

			var err error
			switch args[0] {
			case "required":
				err = r.Required(ruleValue(value))
			case "requiredZeroOk":
				err = r.RequiredZeroOk(ruleValue(value))
			case "date":
				err = r.Date(value)
			case "amount":
				err = r.Amount(value)
			case "boundedInteger":
				if min > max {
					return fmt.Errorf("--min %d exceeds --max %d", min, max)
				}
				err = r.BoundedInteger(value, min, max)
			default:
				return fmt.Errorf("unknown rule %q, want one of %v", args[0], rules)
			}

			var ruleErr *validation.RuleError
			if errors.As(err, &ruleErr) {
				fmt.Fprintln(cmd.OutOrStdout(), ruleErr.Message)
				return fmt.Errorf("rule %s failed: %s", args[0], ruleErr.Key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}),
	}

	cmd.Flags().IntVar(&min, "min", 1, "lower bound for boundedInteger")
	cmd.Flags().IntVar(&max, "max", 31, "upper bound for boundedInteger")
	return cmd
}

// ruleValue treats a numeric argument as a number, so "0" is zero for the
// required rules.
func ruleValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
