package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGroqClientChat проверяет запрос и разбор ответа chat completions.
func TestGroqClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body groqChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.1-8b-instant", body.Model)
		assert.Equal(t, defaultMaxTokens, body.MaxTokens)
		assert.Len(t, body.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"suggestions\":[]}"}}]}`))
	}))
	defer server.Close()

	client := NewGroqClient("secret", server.URL+"/", "llama-3.1-8b-instant", 5*time.Second, 0)

	content, raw, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "json"},
		{Role: "user", Content: "plan"},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"suggestions":[]}`, content)
	assert.Contains(t, string(raw), "choices")
}

// TestGroqClientAPIError проверяет разбор ошибки API.
func TestGroqClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
	}))
	defer server.Close()

	client := NewGroqClient("secret", server.URL, "llama", 5*time.Second, 100)

	_, raw, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "plan"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit reached")
	assert.Contains(t, string(raw), "rate limit")
}

// TestGroqClientMissingKey проверяет отказ без ключа.
func TestGroqClientMissingKey(t *testing.T) {
	client := NewGroqClient("", "http://localhost", "llama", time.Second, 0)

	_, _, err := client.Chat(context.Background(), nil)

	assert.Error(t, err)
}
