// This file implements utilities for parsing request bodies. JSON and
// form-encoded bodies are accepted interchangeably.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 64 << 10

var ErrMissingField = errors.New("missing field")

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// JSON when the body looks like an object
	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		d := json.NewDecoder(strings.NewReader(string(p.body)))
		d.UseNumber()
		if err := d.Decode(&p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// Value returns the raw value of key: strings stay strings, JSON numbers
// become float64, anything else is passed through.
func (p *RequestBodyParser) Value(key string) any {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		if !ok {
			return nil
		}
		switch val := v.(type) {
		case string:
			return sanitizeInput(val)
		case json.Number:
			f, err := val.Float64()
			if err != nil {
				return val.String()
			}
			return f
		default:
			return val
		}
	}
	if p.formData != nil && p.formData.Has(key) {
		return sanitizeInput(p.formData.Get(key))
	}
	return nil
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	return strings.TrimSpace(stringValue(p.Value(key)))
}

// GetFloat returns key as a finite number. Strings must use a plain "."
// decimal; "NaN" and "Inf" are rejected.
func (p *RequestBodyParser) GetFloat(key string) (float64, error) {
	var f float64
	switch v := p.Value(key).(type) {
	case nil:
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	case float64:
		f = v
	default:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(stringValue(v)), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: not a number", key)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: not a finite number", key)
	}
	return f, nil
}

// GetInt returns key as an integer, or def when it is absent.
func (p *RequestBodyParser) GetInt(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	f, err := p.GetFloat(key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%s: not an integer", key)
	}
	return int(f), nil
}

// ContentType returns the Content-Type header value.
func (p *RequestBodyParser) ContentType() string {
	return p.contentType
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for GET-only handlers.
func RequireGET(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}
