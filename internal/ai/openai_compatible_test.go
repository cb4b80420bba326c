package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestCompleteSendsModernTokenParam(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient(nil)
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "test", Model: "test-model"}
	out, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}}, CompleteOptions{Temperature: 0.1, MaxOutputTokens: 2000})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected content %q", out)
	}
	if _, ok := gotBody["max_completion_tokens"]; !ok {
		t.Fatalf("expected max_completion_tokens in request, got %v", gotBody)
	}
	if _, ok := gotBody["max_tokens"]; ok {
		t.Fatalf("did not expect legacy max_tokens in first request")
	}
}

func TestCompleteFallsBackToLegacyTokenParamOnce(t *testing.T) {
	var calls int
	var lastBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		lastBody = body
		if _, ok := lastBody["max_completion_tokens"]; ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Unrecognized request argument: max_completion_tokens"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("legacy ok"))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient(nil)
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "test", Model: "old-model"}
	out, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}}, CompleteOptions{MaxOutputTokens: 500})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "legacy ok" {
		t.Fatalf("unexpected content %q", out)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 requests, got %d", calls)
	}
	if _, ok := lastBody["max_tokens"]; !ok {
		t.Fatalf("expected max_tokens in fallback request, got %v", lastBody)
	}
}

func TestCompleteNoFallbackOnUnrelatedBadRequest(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid model"}}`))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient(nil)
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "test", Model: "nope"}
	if _, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}}, CompleteOptions{MaxOutputTokens: 500}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}
