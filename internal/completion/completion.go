// Package completion talks to the chat completion service. Each request is
// one system instruction plus one user prompt; replies are plain Markdown.
package completion

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
)

// Request is a single-turn completion request.
type Request struct {
	System string
	Prompt string
}

// Client returns the reply text for a request. Implementations must be safe
// to call from a goroutine other than the UI loop.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options configure an OpenAIClient.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client  *go_openai.Client
	model   string
	timeout time.Duration
	hasKey  bool
}

// NewOpenAI builds a client. A missing API key is not fatal here; every
// request fails with a configuration error instead so the UI can still
// browse history.
func NewOpenAI(opts Options) *OpenAIClient {
	config := go_openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	return &OpenAIClient{
		client:  go_openai.NewClientWithConfig(config),
		model:   opts.Model,
		timeout: opts.Timeout,
		hasKey:  opts.APIKey != "",
	}
}

// Complete sends req and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	log := logger.WithComponent("completion")
	if !c.hasKey {
		return "", apperrors.E(apperrors.Op("completion.Complete"), apperrors.KindConfig,
			"no API key configured (set OPENAI_API_KEY or api_key in ~/.parley/config.json)")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]go_openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, go_openai.ChatCompletionMessage{
		Role:    go_openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		log.Warn("completion failed", "model", c.model, "elapsed", time.Since(start), "error", err)
		return "", Classify(err, c.timeout)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.ServiceFailed(errors.New("response contained no choices"))
	}
	log.Debug("completion finished", "model", c.model, "elapsed", time.Since(start),
		"promptTokens", resp.Usage.PromptTokens, "completionTokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// Classify maps a transport or API failure onto an error Kind.
func Classify(err error, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperrors.ServiceTimeout(timeout)
	}
	var apiErr *go_openai.APIError
	if stderrors.As(err, &apiErr) {
		return apperrors.ServiceFailed(errors.Wrapf(apiErr, "HTTP %d", apiErr.HTTPStatusCode))
	}
	var reqErr *go_openai.RequestError
	if stderrors.As(err, &reqErr) {
		return apperrors.ServiceFailed(errors.Wrapf(reqErr.Err, "HTTP %d", reqErr.HTTPStatusCode))
	}
	return apperrors.ServiceFailed(err)
}
