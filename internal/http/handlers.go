package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"saldo/internal/core"
	"saldo/internal/locale"
	"saldo/internal/log"
	"saldo/internal/settings"
	"saldo/internal/validation"
)

type parseResponse struct {
	Amount *float64 `json:"amount"`
	Locale string   `json:"locale"`
}

type formatResponse struct {
	Display  string `json:"display"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

type currencyResponse struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

type validateResponse struct {
	Valid   bool   `json:"valid"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

// localeOr returns requested when it is a usable tag, else the saved
// locale.
func (s *Server) localeOr(requested string) string {
	if requested != "" && locale.Valid(requested) {
		return locale.Canonicalize(requested)
	}
	return s.settings.Current().Locale
}

func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return nil, false
	}
	return p, true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	loc := s.localeOr(p.Get("locale"))
	res := parseResponse{Locale: loc}
	if amount, ok := s.engine.ParseValue(p.Value("value"), loc); ok {
		res.Amount = &amount
	}
	s.metrics.amount("parse", res.Amount != nil)

	NewJSONResponse().Body(res).Write(w)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	amount, err := p.GetFloat("amount")
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	loc := s.localeOr(p.Get("locale"))
	prefs := s.settings.Current().Preferences
	if code := strings.ToUpper(p.Get("currency")); code != "" {
		if !core.IsCurrencyCode(code) {
			UnprocessableEntityError("currency: not an ISO-4217 code").Write(w)
			return
		}
		prefs.CurrencyCode = code
	}

	display := s.engine.Format(amount, loc, prefs)
	s.metrics.amount("format", true)

	NewJSONResponse().Body(formatResponse{
		Display:  display,
		Currency: s.engine.EffectiveCurrency(loc, prefs.CurrencyCode),
		Locale:   loc,
	}).Write(w)
}

func (s *Server) handleSeparators(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	q := r.URL.Query()
	loc := s.localeOr(strings.TrimSpace(q.Get("locale")))

	code := strings.ToUpper(strings.TrimSpace(q.Get("currency")))
	if code == "" {
		code = s.engine.EffectiveCurrency(loc, s.settings.Current().Preferences.CurrencyCode)
	}
	if !core.IsCurrencyCode(code) {
		UnprocessableEntityError("currency: not an ISO-4217 code").Write(w)
		return
	}

	NewJSONResponse().Body(s.engine.SeparatorsFor(loc, code)).Write(w)
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	loc := s.localeOr(strings.TrimSpace(r.URL.Query().Get("locale")))
	NewJSONResponse().Body(currencyResponse{
		Currency: s.engine.EffectiveCurrency(loc, s.settings.Current().Preferences.CurrencyCode),
		Locale:   loc,
	}).Write(w)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	loc := s.localeOr(p.Get("locale"))
	rules := validation.NewRules(s.engine, validation.StaticLocale(loc), s.catalogs.For(loc),
		validation.WithClock(s.now),
		validation.WithLogger(log.FromContext(r.Context())))

	var err error
	switch rule := p.Get("rule"); rule {
	case "required":
		err = rules.Required(p.Value("value"))
	case "requiredZeroOk":
		err = rules.RequiredZeroOk(p.Value("value"))
	case "date":
		err = rules.Date(p.Get("value"))
	case "amount":
		err = rules.Amount(stringValue(p.Value("value")))
	case "boundedInteger":
		min, minErr := p.GetInt("min", 1)
		max, maxErr := p.GetInt("max", 31)
		if minErr != nil || maxErr != nil || min > max {
			UnprocessableEntityError("min and max must be integers with min <= max").Write(w)
			return
		}
		err = rules.BoundedInteger(p.Get("value"), min, max)
	default:
		UnprocessableEntityError(fmt.Sprintf("unknown rule %q", rule)).Write(w)
		return
	}

	res := validateResponse{Valid: err == nil}
	var ruleErr *validation.RuleError
	if errors.As(err, &ruleErr) {
		res.Key = ruleErr.Key
		res.Message = ruleErr.Message
	}
	NewJSONResponse().Body(res).Write(w)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		NewJSONResponse().Body(s.settings.Current()).Write(w)
	case http.MethodPut:
		s.updateSettings(w, r)
	default:
		MethodNotAllowedError("GET, PUT").Write(w)
	}
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var next settings.Settings
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		BadRequestError("invalid settings body").Write(w)
		return
	}

	saved, err := s.settings.Update(r.Context(), next)
	switch {
	case err == nil:
		NewJSONResponse().Body(saved).Write(w)
	case isInvalidSettings(err):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Settings update failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpUpdate)
		InternalServerError("could not save settings").Write(w)
	}
}
