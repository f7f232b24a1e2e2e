package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAICompatAssistant_Complete(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"intent\":\"Escalation\",\"response\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	a := OpenAICompatAssistant{BaseURL: srv.URL + "/v1/", Model: "m", APIKey: "k", JSONMode: true}
	out, err := a.Complete(context.Background(), "sys", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"intent":"Escalation","response":"ok"}` {
		t.Fatalf("unexpected content %q", out)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hello" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format")
	}
}

func TestOpenAICompatAssistant_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := OpenAICompatAssistant{BaseURL: srv.URL, Model: "m"}.Complete(context.Background(), "s", "u")
	var rl RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("expected 7s retry, got %s", rl.RetryAfter)
	}
}

func TestOpenAICompatAssistant_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := OpenAICompatAssistant{BaseURL: srv.URL, Model: "m"}.Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrAssistantAuth) {
		t.Fatalf("expected ErrAssistantAuth, got %v", err)
	}
}

func TestOpenAICompatAssistant_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := (OpenAICompatAssistant{BaseURL: srv.URL, Model: "m"}).Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestExtractRetryAfter(t *testing.T) {
	body := map[string]any{
		"error": map[string]any{
			"details": []any{
				map[string]any{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "3s"},
			},
		},
	}
	if d := extractRetryAfter(body); d != 3*time.Second {
		t.Fatalf("expected 3s, got %s", d)
	}
	if d := extractRetryAfter(map[string]any{}); d != 0 {
		t.Fatalf("expected 0, got %s", d)
	}
}
