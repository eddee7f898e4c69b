package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tienda-gateway/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGraphSend(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody graphMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer server.Close()

	g, err := NewGraph(server.URL, "12345", "secret-token", discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Send(context.Background(), "573001112233", "Hola"); err != nil {
		t.Fatalf("Send = %v", err)
	}

	if gotPath != "/12345/messages" {
		t.Errorf("path = %q, want /12345/messages", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody.MessagingProduct != "whatsapp" || gotBody.Type != "text" {
		t.Errorf("envelope = %+v", gotBody)
	}
	if gotBody.To != "573001112233" || gotBody.Text.Body != "Hola" {
		t.Errorf("message = %+v", gotBody)
	}
}

func TestGraphSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Recipient phone number not in allowed list","type":"OAuthException","code":131030}}`))
	}))
	defer server.Close()

	g, err := NewGraph(server.URL, "12345", "secret-token", discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	err = g.Send(context.Background(), "573001112233", "Hola")
	if err == nil {
		t.Fatal("expected error on non-2xx")
	}
	if !errors.Is(err, model.ErrDispatchFailed) {
		t.Errorf("err = %v, want ErrDispatchFailed", err)
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected APIError")
	}
	if apiErr.StatusCode != 502 {
		t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Message, "Recipient phone number not in allowed list") {
		t.Errorf("provider detail missing from message: %q", apiErr.Message)
	}
}

func TestGraphSendNoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g, err := NewGraph(server.URL, "12345", "secret-token", discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Send(context.Background(), "573001112233", "Hola"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retries)", calls)
	}
}

func TestNewGraphRequiresCredentials(t *testing.T) {
	if _, err := NewGraph("", "", "token", discardLogger()); err == nil {
		t.Error("missing phone ID should fail")
	}
	if _, err := NewGraph("", "12345", "", discardLogger()); err == nil {
		t.Error("missing token should fail")
	}
}

func TestNewGraphDefaultBaseURL(t *testing.T) {
	g, err := NewGraph("", "12345", "token", discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if g.baseURL != DefaultGraphBaseURL {
		t.Errorf("baseURL = %q, want default", g.baseURL)
	}
}
