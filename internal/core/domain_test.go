package core

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFormatPreferenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *FormatPreference)
		wantErr error
	}{
		{"default is valid", func(p *FormatPreference) {}, nil},
		{"min equal max", func(p *FormatPreference) { p.MinPrecision = intPtr(2) }, nil},
		{"min above max", func(p *FormatPreference) { p.MinPrecision = intPtr(3) }, ErrInvalidPrecision},
		{"negative min", func(p *FormatPreference) { p.MinPrecision = intPtr(-1) }, ErrInvalidPrecision},
		{"max too large", func(p *FormatPreference) { p.MaxPrecision = 20 }, ErrInvalidPrecision},
		{"lowercase currency", func(p *FormatPreference) { p.CurrencyCode = "usd" }, ErrInvalidCurrency},
		{"unknown display mode", func(p *FormatPreference) { p.DisplayMode = "emoji" }, ErrInvalidDisplayMode},
		{"unknown sign style", func(p *FormatPreference) { p.SignStyle = "red" }, ErrInvalidSignStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultFormatPreference("usd")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:        Expense,
		Date:        NewDate(2025, 1, 1),
		Description: "groceries",
		Amount:      12.5,
		Currency:    "EUR",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Kind: "gift", Date: NewDate(2025, 1, 1), Description: "a", Amount: 1, Currency: "EUR"},
		{Kind: Income, Date: Date{}, Description: "a", Amount: 1, Currency: "EUR"},
		{Kind: Income, Date: NewDate(2025, 1, 1), Description: " ", Amount: 1, Currency: "EUR"},
		{Kind: Income, Date: NewDate(2025, 1, 1), Description: "a", Amount: 0, Currency: "EUR"},
		{Kind: Income, Date: NewDate(2025, 1, 1), Description: "a", Amount: -4, Currency: "EUR"},
		{Kind: Income, Date: NewDate(2025, 1, 1), Description: "a", Amount: 1, Currency: "EURO"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBalance(t *testing.T) {
	txs := []Transaction{
		{Kind: Income, Amount: 1000.10},
		{Kind: Expense, Amount: 0.1},
		{Kind: Expense, Amount: 0.2},
	}
	if got := Balance(txs, 2); got != 999.8 {
		t.Fatalf("Balance = %v, want 999.8", got)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Kind: Income, Date: NewDate(2026, 3, 1), Amount: 2500, Currency: "EUR"},
		{Kind: Expense, Date: NewDate(2026, 3, 4), Amount: 0.1, Currency: "EUR"},
		{Kind: Expense, Date: NewDate(2026, 3, 9), Amount: 0.2, Currency: "EUR"},
		{Kind: Expense, Date: NewDate(2026, 4, 1), Amount: 99, Currency: "EUR"},
		{Kind: Expense, Date: NewDate(2026, 3, 2), Amount: 50, Currency: "USD"},
	}

	got := Summarize(txs, 2026, 3, "EUR", 2)
	want := MonthOverview{Year: 2026, Month: 3, Currency: "EUR", Income: 2500, Expense: 0.3, Balance: 2499.7, Count: 3}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}

	empty := Summarize(nil, 2026, 1, "EUR", 2)
	if empty.Count != 0 || empty.Balance != 0 {
		t.Fatalf("Summarize(nil) = %+v", empty)
	}
}
