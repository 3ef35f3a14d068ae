package ai

import (
	"context"
	"errors"
	"fmt"
)

// Chat message roles understood by every provider variant.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one message of a classification request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat-completion backend. The set of implementations is
// closed: disabled, OpenAI-compatible and Gemini.
type Provider interface {
	// Name identifies the variant ("none", "openai_compatible", "gemini").
	Name() string
	// Complete issues exactly one completion request. It is not retried
	// and not cancelled mid-flight beyond ctx.
	Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error)
}

// ErrUnavailable signals that no usable provider is configured. Callers
// short-circuit without any network call.
var ErrUnavailable = errors.New("ai_unavailable")

// HTTPError is a provider-side rejection, carrying the upstream HTTP
// status and a bounded error message.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ai_http_%d", e.Status)
	}
	return fmt.Sprintf("ai_http_%d: %s", e.Status, e.Message)
}

// maxErrorLen bounds upstream error text before it is surfaced, so a large
// upstream payload never leaks through.
const maxErrorLen = 240

func boundErrorText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxErrorLen {
		return s
	}
	return string(runes[:maxErrorLen]) + "…"
}

type disabledProvider struct{}

// Disabled returns the provider used when classification is switched off
// or unconfigured.
func Disabled() Provider { return disabledProvider{} }

func (disabledProvider) Name() string { return "none" }

func (disabledProvider) Complete(context.Context, []ChatMessage, int) (string, error) {
	return "", ErrUnavailable
}
