package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"saldo/internal/core"
)

type transactionRequest struct {
	Kind        core.TransactionKind `json:"kind"`
	Date        string               `json:"date"`
	Description string               `json:"description"`
	Amount      float64              `json:"amount"`
	Currency    string               `json:"currency"`
}

type balanceRequest struct {
	Transactions []transactionRequest `json:"transactions"`
	Year         int                  `json:"year"`
	Month        int                  `json:"month"`
	Currency     string               `json:"currency"`
	Locale       string               `json:"locale"`
}

type balanceDisplay struct {
	Income         string `json:"income"`
	Expense        string `json:"expense"`
	Balance        string `json:"balance"`
	RunningBalance string `json:"runningBalance"`
}

type balanceResponse struct {
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	Currency       string         `json:"currency"`
	Locale         string         `json:"locale"`
	Income         float64        `json:"income"`
	Expense        float64        `json:"expense"`
	Balance        float64        `json:"balance"`
	RunningBalance float64        `json:"runningBalance"`
	Count          int            `json:"count"`
	Display        balanceDisplay `json:"display"`
}

func (t transactionRequest) toTransaction() (core.Transaction, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(t.Date))
	if err != nil {
		return core.Transaction{}, errors.New("date must be YYYY-MM-DD")
	}
	tx := core.Transaction{
		Kind:        t.Kind,
		Date:        core.NewDate(d.Year(), int(d.Month()), d.Day()),
		Description: t.Description,
		Amount:      t.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(t.Currency)),
	}
	return tx, tx.Validate()
}

// handleBalance summarizes one month of the posted transactions and the
// running balance up to the end of that month, in a single currency.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	var req balanceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		BadRequestError("invalid balance body").Write(w)
		return
	}

	now := s.now()
	if req.Year == 0 && req.Month == 0 {
		req.Year, req.Month = now.Year(), int(now.Month())
	}
	if req.Year < 1 || req.Month < 1 || req.Month > 12 {
		UnprocessableEntityError("year and month must name a calendar month").Write(w)
		return
	}

	txs := make([]core.Transaction, 0, len(req.Transactions))
	for i, t := range req.Transactions {
		tx, err := t.toTransaction()
		if err != nil {
			UnprocessableEntityError(fmt.Sprintf("transactions[%d]: %v", i, err)).Write(w)
			return
		}
		txs = append(txs, tx)
	}

	loc := s.localeOr(req.Locale)
	prefs := s.settings.Current().Preferences
	if code := strings.ToUpper(strings.TrimSpace(req.Currency)); code != "" {
		if !core.IsCurrencyCode(code) {
			UnprocessableEntityError("currency: not an ISO-4217 code").Write(w)
			return
		}
		prefs.CurrencyCode = code
	}
	prefs.CurrencyCode = s.engine.EffectiveCurrency(loc, prefs.CurrencyCode)

	overview := core.Summarize(txs, req.Year, req.Month, prefs.CurrencyCode, prefs.MaxPrecision)

	monthEnd := time.Date(req.Year, time.Month(req.Month)+1, 1, 0, 0, 0, 0, time.UTC)
	var upTo []core.Transaction
	for _, t := range txs {
		if t.Currency == prefs.CurrencyCode && t.Date.Before(monthEnd) {
			upTo = append(upTo, t)
		}
	}
	running := core.Balance(upTo, prefs.MaxPrecision)
	s.metrics.amount("balance", true)

	NewJSONResponse().Body(balanceResponse{
		Year:           overview.Year,
		Month:          overview.Month,
		Currency:       overview.Currency,
		Locale:         loc,
		Income:         overview.Income,
		Expense:        overview.Expense,
		Balance:        overview.Balance,
		RunningBalance: running,
		Count:          overview.Count,
		Display: balanceDisplay{
			Income:         s.engine.Format(overview.Income, loc, prefs),
			Expense:        s.engine.Format(overview.Expense, loc, prefs),
			Balance:        s.engine.Format(overview.Balance, loc, prefs),
			RunningBalance: s.engine.Format(running, loc, prefs),
		},
	}).Write(w)
}
