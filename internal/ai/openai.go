package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type openAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAICompatible creates a provider speaking the OpenAI chat
// completion protocol, usable against api.openai.com and any compatible
// relay via baseURL.
func NewOpenAICompatible(apiKey, baseURL, model string, timeout time.Duration) Provider {
	if model == "" {
		model = defaultOpenAIModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = NormalizeOpenAIBaseURL(baseURL)
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &openAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *openAIProvider) Name() string { return "openai_compatible" }

func (p *openAIProvider) Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &HTTPError{
				Status:  apiErr.HTTPStatusCode,
				Message: boundErrorText(apiErr.Message),
			}
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// NormalizeOpenAIBaseURL trims trailing slashes and guarantees the /v1
// suffix the chat completion path is appended to.
func NormalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return defaultOpenAIBaseURL
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}
