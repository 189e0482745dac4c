package core

import "github.com/shopspring/decimal"

// MonthOverview totals the transactions of one calendar month in a single
// currency. Expense is reported as a positive amount.
type MonthOverview struct {
	Year     int
	Month    int // 1-12
	Currency string
	Income   float64
	Expense  float64
	Balance  float64
	Count    int
}

// Summarize builds the overview of year/month for currency from txs.
// Transactions in other months or currencies are skipped; sums are
// rounded once to precision.
func Summarize(txs []Transaction, year, month int, currency string, precision int) MonthOverview {
	income, expense := decimal.Zero, decimal.Zero
	count := 0
	for _, t := range txs {
		if t.Currency != currency || t.Date.Year() != year || int(t.Date.Month()) != month {
			continue
		}
		amount := decimal.NewFromFloat(t.Amount)
		if t.Kind == Expense {
			expense = expense.Add(amount)
		} else {
			income = income.Add(amount)
		}
		count++
	}

	p := int32(precision)
	in, _ := income.Round(p).Float64()
	out, _ := expense.Round(p).Float64()
	bal, _ := income.Sub(expense).Round(p).Float64()
	return MonthOverview{
		Year:     year,
		Month:    month,
		Currency: currency,
		Income:   in,
		Expense:  out,
		Balance:  bal,
		Count:    count,
	}
}
