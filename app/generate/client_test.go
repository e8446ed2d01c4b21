package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGenerate(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "test-model",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "# Article\n\nBody."}},
			},
			"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 500, "total_tokens": 600},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	resp, err := client.Generate(context.Background(), Request{Prompt: "write it", MaxTokens: 9216})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Content != "# Article\n\nBody." {
		t.Errorf("Unexpected content: %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 600 {
		t.Errorf("Unexpected usage: %+v", resp.Usage)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != 9216 {
		t.Errorf("Unexpected request: %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "write it" {
		t.Errorf("Unexpected messages: %+v", gotReq.Messages)
	}
}

func TestClientGenerate_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	if _, err := client.Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Error("Expected error for non-2xx status")
	}
}

func TestClientGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model": "m", "choices": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "test-key", 5*time.Second)
	if _, err := client.Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestClientGenerate_Misconfigured(t *testing.T) {
	client := NewClient("", "", "", 0)
	if _, err := client.Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Error("Expected error for missing configuration")
	}
}
