package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mindmap/pkg/openai"
)

func TestClient_ChatCompletion(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "generated text"}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46},
		})
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Model:   "gpt-4-turbo-preview",
	})

	result := client.ChatCompletion(context.Background(), []openai.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
	}, openai.Options{Temperature: 0.7, MaxTokens: 1000})

	assert.True(t, result.Success)
	assert.Equal(t, "generated text", result.Content)
	assert.Empty(t, result.Error)
	assert.NotNil(t, result.Usage)
	assert.Equal(t, 46, result.Usage.TotalTokens)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4-turbo-preview", gotPayload["model"])
	assert.Equal(t, 0.7, gotPayload["temperature"])
	assert.Equal(t, float64(1000), gotPayload["max_tokens"])
}

func TestClient_ChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Rate limit reached", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: server.URL})

	result := client.ChatCompletion(context.Background(), []openai.Message{{Role: "user", Content: "hello"}}, openai.Options{})
	assert.False(t, result.Success)
	assert.Equal(t, "Rate limit reached", result.Error)
}

func TestClient_ChatCompletionMissingKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	// Key validation is lazy; an unconfigured client fails on the first call
	// without touching the network.
	client := openai.NewClient(openai.Config{BaseURL: server.URL})

	result := client.ChatCompletion(context.Background(), []openai.Message{{Role: "user", Content: "hello"}}, openai.Options{})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "OPENAI_API_KEY")
	assert.False(t, called)
}

func TestClient_ChatCompletionUpstreamUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Immediately closed: connection refused.

	client := openai.NewClient(openai.Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Timeout: time.Second,
	})

	result := client.ChatCompletion(context.Background(), []openai.Message{{Role: "user", Content: "hello"}}, openai.Options{})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestClient_ChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	client := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: server.URL})

	result := client.ChatCompletion(context.Background(), []openai.Message{{Role: "user", Content: "hello"}}, openai.Options{})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no choices")
}
