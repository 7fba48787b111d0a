package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "hello" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
			t.Fatalf("expected json_schema response format, got %+v", req.ResponseFormat)
		}
		if req.ResponseFormat.JSONSchema.Name != "thing" || !req.ResponseFormat.JSONSchema.Strict {
			t.Errorf("unexpected schema binding: %+v", req.ResponseFormat.JSONSchema)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"ok":true}`}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", server.URL)
	raw, err := c.CompleteJSON(context.Background(), "you are a test", "hello", "thing", json.RawMessage(`{"type":"object"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("expected raw JSON passthrough, got %s", raw)
	}
}

func TestCompleteJSON_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "invalid_request_error",
				"message": "schema too large",
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", server.URL)
	_, err := c.CompleteJSON(context.Background(), "", "hi", "thing", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestCompleteJSON_Refusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "", "refusal": "cannot comply"}},
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", server.URL)
	_, err := c.CompleteJSON(context.Background(), "", "hi", "thing", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for refusal")
	}
}

func TestCompleteJSON_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", server.URL)
	_, err := c.CompleteJSON(context.Background(), "", "hi", "thing", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
