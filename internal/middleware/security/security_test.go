package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/currency", nil))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/api/currency", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
}

func TestClientIP(t *testing.T) {
	e, err := NewIPExtractor()
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct public", "203.0.113.7:5555", "", "", "203.0.113.7"},
		{"spoofed header from public peer", "203.0.113.7:5555", "1.2.3.4", "", "203.0.113.7"},
		{"forwarded by local proxy", "127.0.0.1:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"real ip from private proxy", "10.1.2.3:80", "", "198.51.100.9", "198.51.100.9"},
		{"garbage forwarded value", "10.1.2.3:80", "not-an-ip", "", "10.1.2.3"},
		{"remote without port", "192.0.2.1", "", "", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, e.ClientIP(r))
		})
	}
}

func TestNewIPExtractorRejectsBadCIDR(t *testing.T) {
	_, err := NewIPExtractor("300.0.0.0/8")
	assert.Error(t, err)
}
