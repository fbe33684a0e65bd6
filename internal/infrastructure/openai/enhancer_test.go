package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/recipebook/backend/internal/domain"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChatServer answers /v1/chat/completions with reply and records the last request
func newChatServer(t *testing.T, status int, reply string, last *openai.ChatCompletionRequest, calls *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if last != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(last))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func chatReply(content string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":` +
		quote(content) + `},"finish_reason":"stop"}]}`
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestNewEnhancer(t *testing.T) {
	e := NewEnhancer(Config{})
	assert.False(t, e.Enabled())
	assert.Equal(t, defaultModel, e.model)
	assert.Equal(t, defaultTimeout, e.timeout)

	e = NewEnhancer(Config{APIKey: "k", Model: "local-model", Timeout: time.Second, RequestsPerMinute: 10})
	assert.True(t, e.Enabled())
	assert.Equal(t, "local-model", e.model)
	assert.Equal(t, time.Second, e.timeout)
	assert.Equal(t, 10, e.rateLimiter.Burst())
}

func TestTryEnhance_Disabled(t *testing.T) {
	var calls int32
	server := newChatServer(t, http.StatusOK, chatReply("x"), nil, &calls)

	e := NewEnhancer(Config{BaseURL: server.URL + "/v1"})
	text, ok := e.TryEnhance(context.Background(), domain.EnhanceRequest{Title: "t", Lines: []string{"a"}})

	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTryEnhance_Bullets(t *testing.T) {
	var calls int32
	var last openai.ChatCompletionRequest
	server := newChatServer(t, http.StatusOK, chatReply("  - 4 яйця\n- 2 склянки молока  "), &last, &calls)

	e := NewEnhancer(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	text, ok := e.TryEnhance(context.Background(), domain.EnhanceRequest{
		Title: "Масштабовані інгредієнти:",
		Lines: []string{"4 яйця", "2 склянки молока"},
	})

	require.True(t, ok)
	assert.Equal(t, "- 4 яйця\n- 2 склянки молока", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, defaultModel, last.Model)
	require.Len(t, last.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, last.Messages[0].Role)
	assert.Equal(t, bulletsSystemPrompt, last.Messages[0].Content)
	assert.Equal(t, "Масштабовані інгредієнти:\n- 4 яйця\n- 2 склянки молока", last.Messages[1].Content)
}

func TestTryEnhance_Plan(t *testing.T) {
	var calls int32
	var last openai.ChatCompletionRequest
	server := newChatServer(t, http.StatusOK, chatReply("План готовий"), &last, &calls)

	plan := &domain.WeeklyPlan{
		Days:          1,
		MealsPerDay:   1,
		ShoppingList:  []string{"bacon"},
		UsedRecipeIDs: []int64{3},
	}

	e := NewEnhancer(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	text, ok := e.TryEnhance(context.Background(), domain.EnhanceRequest{Plan: plan})

	require.True(t, ok)
	assert.Equal(t, "План готовий", text)
	require.Len(t, last.Messages, 2)
	assert.Equal(t, planSystemPrompt, last.Messages[0].Content)

	payload := last.Messages[1].Content
	require.True(t, strings.HasPrefix(payload, "Ось дані (JSON):\n"))

	var decoded domain.WeeklyPlan
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(payload, "Ось дані (JSON):\n")), &decoded))
	assert.Equal(t, []string{"bacon"}, decoded.ShoppingList)
	assert.Equal(t, []int64{3}, decoded.UsedRecipeIDs)
}

func TestTryEnhance_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{name: "server error", status: http.StatusInternalServerError, reply: `{"error":{"message":"boom","type":"server_error"}}`},
		{name: "no choices", status: http.StatusOK, reply: `{"id":"chatcmpl-1","choices":[]}`},
		{name: "blank content", status: http.StatusOK, reply: chatReply("   ")},
		{name: "malformed body", status: http.StatusOK, reply: `{"choices":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := newChatServer(t, tt.status, tt.reply, nil, &calls)

			e := NewEnhancer(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
			text, ok := e.TryEnhance(context.Background(), domain.EnhanceRequest{Title: "t", Lines: []string{"a"}})

			assert.False(t, ok)
			assert.Empty(t, text)
			assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
		})
	}
}

func TestTryEnhance_RateLimited(t *testing.T) {
	var calls int32
	server := newChatServer(t, http.StatusOK, chatReply("ok"), nil, &calls)

	e := NewEnhancer(Config{APIKey: "test-key", BaseURL: server.URL + "/v1", RequestsPerMinute: 1})
	request := domain.EnhanceRequest{Title: "t", Lines: []string{"a"}}

	_, ok := e.TryEnhance(context.Background(), request)
	assert.True(t, ok)

	text, ok := e.TryEnhance(context.Background(), request)
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTryEnhance_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	e := NewEnhancer(Config{APIKey: "test-key", BaseURL: server.URL + "/v1", Timeout: 50 * time.Millisecond})
	_, ok := e.TryEnhance(context.Background(), domain.EnhanceRequest{Title: "t"})
	assert.False(t, ok)
}
