package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"google.golang.org/genai"

	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/internal/retry"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// explanationFields are the properties every Gemini answer must carry.
var explanationFields = []string{
	"code", "name", "category", "description", "whenToUse",
	"commonScenarios", "bestPractices", "exampleResponse", "relatedCodes",
}

// ExplanationSchema returns the JSON Schema sent to Gemini as
// responseJsonSchema and used to validate its answers.
func ExplanationSchema() map[string]any {
	props := make(map[string]any, len(explanationFields))
	required := make([]any, 0, len(explanationFields))
	for _, f := range explanationFields {
		props[f] = map[string]any{"type": "string"}
		required = append(required, f)
	}
	props["code"] = map[string]any{"type": "integer"}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var explanationValidator = mustCompileSchema(ExplanationSchema())

func mustCompileSchema(doc map[string]any) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("explanation.json", doc); err != nil {
		panic(fmt.Sprintf("add explanation schema: %v", err))
	}
	return c.MustCompile("explanation.json")
}

// GeminiOptions configures the Gemini adapter.
type GeminiOptions struct {
	APIKey string
	Model  string
	// Endpoint is the API base URL; the SDK appends the API version.
	Endpoint string
	Timeout  time.Duration
	Retry    retry.Policy
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// ContentGenerator is the part of the genai client the adapter calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini explains status codes with the Gemini generateContent API,
// requesting JSON output constrained by ExplanationSchema.
type Gemini struct {
	models ContentGenerator
	model  string
	policy retry.Policy
}

// NewGemini creates a Gemini adapter. Without an API key, or when the
// client cannot be built, the adapter is inert and every call returns the
// fallback explanation.
func NewGemini(opts GeminiOptions) *Gemini {
	g := &Gemini{model: opts.Model, policy: opts.Retry}
	if opts.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, Gemini explanations will fall back")
		return g
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.Endpoint},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client, explanations will fall back")
		return g
	}
	g.models = client.Models
	return g
}

// NewGeminiWithClient creates an adapter around an existing generator.
func NewGeminiWithClient(gen ContentGenerator, model string, policy retry.Policy) *Gemini {
	return &Gemini{models: gen, model: model, policy: policy}
}

func (g *Gemini) Name() string { return config.ProviderGemini }

func (g *Gemini) Explain(ctx context.Context, code int) models.StatusCodeExplanation {
	if g.models == nil {
		return models.FallbackExplanation(code)
	}

	contents := []*genai.Content{genai.NewContentFromText(UserPrompt(code), genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(SystemPrompt, ""),
		Temperature:        genai.Ptr[float32](0.3),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: ExplanationSchema(),
	}

	var text string
	err := g.policy.Do(ctx, func(ctx context.Context, _ int) error {
		t, err := g.generate(ctx, contents, cfg)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("code", code).Str("provider", g.Name()).Msg("Explanation request failed")
		return models.FallbackExplanation(code)
	}

	expl, err := decodeGemini(text, code)
	if err != nil {
		log.Warn().Err(err).Int("code", code).Str("provider", g.Name()).Msg("Discarding unparseable explanation")
		return models.FallbackExplanation(code)
	}
	return expl
}

// generate performs one generateContent call. Only 429 and 5xx answers are
// retryable; transport failures and every other status are permanent.
func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", geminiError(g.Name(), err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", retry.Permanent(fmt.Errorf("%w: no candidate text", ErrUnparseable))
	}
	return text, nil
}

// geminiError classifies an SDK error. API errors carry the HTTP status;
// anything else happened before a response arrived.
func geminiError(name string, err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return retry.Permanent(fmt.Errorf("gemini request: %w", err))
	}
	statusErr := &StatusError{Provider: name, StatusCode: apiErr.Code, Body: truncate(apiErr.Message, 512)}
	if transientStatus(apiErr.Code) {
		return statusErr
	}
	return retry.Permanent(statusErr)
}

// decodeGemini validates text against ExplanationSchema before decoding it.
func decodeGemini(text string, code int) (models.StatusCodeExplanation, error) {
	text = StripCodeFences(text)
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return models.StatusCodeExplanation{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if err := explanationValidator.Validate(inst); err != nil {
		return models.StatusCodeExplanation{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return ParseExplanation(text, code)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
