package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/internal/retry"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// MessagesClient is the subset of the Anthropic SDK used by Claude. It is
// satisfied by the SDK's Messages service.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// ClaudeOptions configures the Claude adapter.
type ClaudeOptions struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
	Retry     retry.Policy
}

// Claude explains status codes with the Anthropic Messages API.
type Claude struct {
	msg       MessagesClient
	model     string
	maxTokens int64
	policy    retry.Policy
}

// NewClaude builds an adapter backed by the Anthropic SDK. Without an API key
// the adapter is inert and every call returns the fallback explanation.
func NewClaude(opts ClaudeOptions) *Claude {
	if opts.APIKey == "" {
		log.Warn().Msg("ANTHROPIC_API_KEY not set, Claude explanations will fall back")
		return NewClaudeWithClient(nil, opts)
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// Retries are owned by retry.Policy.
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	client := sdk.NewClient(reqOpts...)
	return NewClaudeWithClient(&client.Messages, opts)
}

// NewClaudeWithClient builds an adapter around msg. A nil msg yields an
// inert adapter.
func NewClaudeWithClient(msg MessagesClient, opts ClaudeOptions) *Claude {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Claude{
		msg:       msg,
		model:     opts.Model,
		maxTokens: int64(maxTokens),
		policy:    opts.Retry,
	}
}

func (c *Claude) Name() string { return config.ProviderClaude }

func (c *Claude) Explain(ctx context.Context, code int) models.StatusCodeExplanation {
	if c.msg == nil {
		return models.FallbackExplanation(code)
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(0.3),
		System:      []sdk.TextBlockParam{{Text: SystemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(UserPrompt(code))),
		},
	}

	var text string
	err := c.policy.Do(ctx, func(ctx context.Context, _ int) error {
		msg, err := c.msg.New(ctx, params)
		if err != nil {
			if claudeRetryable(err) {
				return err
			}
			return retry.Permanent(err)
		}
		text = messageText(msg)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("code", code).Str("provider", c.Name()).Msg("Explanation request failed")
		return models.FallbackExplanation(code)
	}

	expl, err := ParseExplanation(text, code)
	if err != nil {
		log.Warn().Err(err).Int("code", code).Str("provider", c.Name()).Msg("Discarding unparseable explanation")
		return models.FallbackExplanation(code)
	}
	return expl
}

// claudeRetryable classifies SDK errors. API errors retry on 429 and 5xx
// (including 529 overloaded); transport failures always retry unless the
// caller's context ended.
func claudeRetryable(err error) bool {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.StatusCode)
	}
	return !errors.Is(err, context.Canceled)
}

func messageText(msg *sdk.Message) string {
	if msg == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
