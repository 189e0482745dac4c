package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		Body(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Body.String() != `{"n":1}` {
		t.Errorf("Body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header not set")
	}
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestJSONResponseBuilder_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Body(make(chan int)).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status=%d, want 500", w.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name string
		b    *JSONResponseBuilder
		code int
		body string
	}{
		{"bad request", BadRequestError("nope"), http.StatusBadRequest, `{"error":"nope"}`},
		{"unprocessable", UnprocessableEntityError("bad input"), http.StatusUnprocessableEntity, `{"error":"bad input"}`},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, `{"error":"boom"}`},
		{"not found", NotFoundError("missing"), http.StatusNotFound, `{"error":"missing"}`},
		{"too many", TooManyRequestsError(), http.StatusTooManyRequests, `{"error":"rate limit exceeded"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.b.Write(w)
			if w.Code != tt.code {
				t.Errorf("status=%d, want %d", w.Code, tt.code)
			}
			if w.Body.String() != tt.body {
				t.Errorf("body=%q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}
