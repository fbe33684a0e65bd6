package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/recipebook/backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	bulletsSystemPrompt = "Поверни ТІЛЬКИ маркерований список українською. Без пояснень."
	planSystemPrompt    = "Сформуй короткий гарний план раціону українською + список покупок. Без води."

	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
)

// Config holds configuration for the enhancer
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Enhancer prettifies kitchen output through an OpenAI-compatible chat API.
// Every failure degrades to "no enhancement".
type Enhancer struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	rateLimiter *rate.Limiter
	enabled     bool
}

// NewEnhancer creates an enhancer. Without an API key it is disabled and
// never touches the network.
func NewEnhancer(config Config) *Enhancer {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), config.RequestsPerMinute)
	}

	return &Enhancer{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		timeout:     timeout,
		rateLimiter: limiter,
		enabled:     config.APIKey != "",
	}
}

// Enabled reports whether an API key is configured
func (e *Enhancer) Enabled() bool {
	return e.enabled
}

// TryEnhance formats the request. It returns false when disabled, throttled,
// or when the call fails or comes back empty.
func (e *Enhancer) TryEnhance(ctx context.Context, request domain.EnhanceRequest) (string, bool) {
	if !e.enabled {
		return "", false
	}

	// Skip rather than wait; enhancement is optional
	if !e.rateLimiter.Allow() {
		log.Warn().Msg("[ENHANCE] rate limit reached, skipping")
		return "", false
	}

	messages, err := buildMessages(request)
	if err != nil {
		log.Warn().Err(err).Msg("[ENHANCE] failed to build prompt")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    e.model,
		Messages: messages,
	})
	if err != nil {
		log.Warn().Err(err).Msg("[ENHANCE] chat completion failed")
		return "", false
	}

	if len(resp.Choices) == 0 {
		log.Warn().Msg("[ENHANCE] response has no choices")
		return "", false
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", false
	}
	return text, true
}

func buildMessages(request domain.EnhanceRequest) ([]openai.ChatCompletionMessage, error) {
	if request.Plan != nil {
		data, err := json.Marshal(request.Plan)
		if err != nil {
			return nil, fmt.Errorf("marshal plan: %w", err)
		}
		return []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: planSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Ось дані (JSON):\n" + string(data)},
		}, nil
	}

	var b strings.Builder
	b.WriteString(request.Title)
	for _, line := range request.Lines {
		b.WriteString("\n- ")
		b.WriteString(line)
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: bulletsSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	}, nil
}
