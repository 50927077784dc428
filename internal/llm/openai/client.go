package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/telemetry"
)

const providerName = "openai"

// Config configures the OpenAI provider. BaseURL is optional.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	return &Client{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Complete sends one chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(c.model),
	}
	if !isReasoningModel(c.model) {
		params.Temperature = openai.F(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.F(int64(req.MaxTokens))
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	metrics.ObserveLLMDurationMs(providerName, metrics.SinceMillis(start))
	if err != nil {
		return llm.Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("openai response missing choices")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return llm.Response{}, fmt.Errorf("openai response empty content")
	}

	telemetry.Info("llm.response", map[string]any{
		"provider":     providerName,
		"model":        completion.Model,
		"prompt_hash":  req.PromptHash(),
		"total_tokens": completion.Usage.TotalTokens,
	})
	return llm.Response{Text: text, Model: completion.Model, TotalTokens: completion.Usage.TotalTokens}, nil
}

// gpt-5 and o-series models reject a custom temperature.
func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	return strings.HasPrefix(m, "gpt-5") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

var _ llm.Client = (*Client)(nil)
