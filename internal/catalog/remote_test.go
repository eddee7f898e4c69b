package catalog

import (
	"errors"
	"testing"

	"tienda-gateway/internal/model"
)

func TestNewRemoteRequiresBaseURL(t *testing.T) {
	if _, err := NewRemote(""); err == nil {
		t.Error("empty base URL should fail")
	}
	r, err := NewRemote("https://store.example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if r.baseURL != "https://store.example.com" {
		t.Errorf("baseURL = %q, trailing slash should be trimmed", r.baseURL)
	}
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"not found", 404, `{"error":{"code":"NOT_FOUND","message":"product not found"}}`, model.ErrNotFound},
		{"rate limited", 429, ``, model.ErrRateLimited},
		{"server error", 500, `{"error":{"code":"INTERNAL","message":"boom"}}`, model.ErrUpstreamError},
		{"unparseable body", 502, `<html>bad gateway</html>`, model.ErrUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(tt.status, []byte(tt.body))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}
		})
	}
}
