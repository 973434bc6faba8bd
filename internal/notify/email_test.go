package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvanek/accountd/internal/notify"
)

func TestEmailNotifier_Send(t *testing.T) {
	var gotAuth string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := notify.NewEmailNotifier("test-key", "noreply@example.com", "Accounts")
	n.Endpoint = srv.URL

	err := n.Send(context.Background(), "alice@example.com", "Activate your account", "click here")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}

	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["subject"] != "Activate your account" {
		t.Fatalf("expected subject in payload, got %v", payload["subject"])
	}
	if !strings.Contains(string(gotBody), "alice@example.com") {
		t.Fatal("expected recipient address in payload")
	}
}

func TestEmailNotifier_Send_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad api key"}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := notify.NewEmailNotifier("bad-key", "noreply@example.com", "Accounts")
	n.Endpoint = srv.URL

	err := n.Send(context.Background(), "alice@example.com", "subject", "body")
	if err == nil {
		t.Fatal("expected error for non-2xx provider response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}
