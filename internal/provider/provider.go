// Package provider implements the AI backends that explain HTTP status
// codes: Claude through the Anthropic Messages API and Gemini through the
// generateContent REST API with a declared response schema.
//
// Every adapter honours the contracts.Explainer promise: Explain never fails.
// Missing credentials, exhausted retries, permanent API errors and
// unparseable output all end in models.FallbackExplanation.
package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/statusteacher/statusteacher/pkg/models"
)

// SystemPrompt is the fixed instruction sent to every provider.
const SystemPrompt = `You are an expert web developer and HTTP protocol educator.
When asked about an HTTP status code, respond ONLY with a single JSON object and no other text.
The object must have exactly these fields:
  "code" (integer), "name" (string), "category" (string, one of "1xx Informational", "2xx Success", "3xx Redirection", "4xx Client Error", "5xx Server Error"),
  "description", "whenToUse", "commonScenarios", "bestPractices", "exampleResponse", "relatedCodes" (all strings).
Keep each field concise, accurate and practical for developers.`

// UserPrompt is the one-line query for code.
func UserPrompt(code int) string {
	return fmt.Sprintf("Explain HTTP status code %d.", code)
}

// notSpecified fills optional descriptive fields the model left empty.
const notSpecified = "Not specified"

// ErrUnparseable marks provider output that is not a usable explanation.
var ErrUnparseable = errors.New("unparseable explanation")

// StatusError is a non-2xx answer from a provider's HTTP API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// transientStatus reports whether an HTTP status is worth retrying:
// rate limiting or any server-side failure.
func transientStatus(status int) bool {
	return status == 429 || status >= 500
}

// StripCodeFences removes a leading ``` (optionally followed by a language
// tag) and a trailing ``` from s.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		end := strings.IndexByte(s, '\n')
		if end < 0 {
			end = len(s)
		}
		if brace := strings.IndexAny(s[:end], "{["); brace >= 0 {
			s = s[brace:]
		} else {
			s = s[end:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractObject returns the outermost {...} span of s, tolerating prose
// around the JSON.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ParseExplanation decodes model output into an explanation for code.
//
// Fences and surrounding prose are removed. Descriptive fields may be
// strings, numbers or arrays of strings (joined with ", "). The returned
// Code is always the requested code. A missing name or description is
// ErrUnparseable.
func ParseExplanation(text string, code int) (models.StatusCodeExplanation, error) {
	obj, ok := extractObject(StripCodeFences(text))
	if !ok {
		return models.StatusCodeExplanation{}, fmt.Errorf("%w: no JSON object in response", ErrUnparseable)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return models.StatusCodeExplanation{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	expl := models.StatusCodeExplanation{
		Code:            code,
		Name:            flatString(raw["name"]),
		Category:        flatString(raw["category"]),
		Description:     flatString(raw["description"]),
		WhenToUse:       flatString(raw["whenToUse"]),
		CommonScenarios: flatString(raw["commonScenarios"]),
		BestPractices:   flatString(raw["bestPractices"]),
		ExampleResponse: flatString(raw["exampleResponse"]),
		RelatedCodes:    flatString(raw["relatedCodes"]),
	}
	if expl.Name == "" || expl.Description == "" {
		return models.StatusCodeExplanation{}, fmt.Errorf("%w: name or description missing", ErrUnparseable)
	}
	if expl.Category == "" {
		expl.Category = models.CategoryFor(code)
	}
	for _, f := range []*string{&expl.WhenToUse, &expl.CommonScenarios, &expl.BestPractices, &expl.ExampleResponse, &expl.RelatedCodes} {
		if *f == "" {
			*f = notSpecified
		}
	}
	return expl, nil
}

// flatString renders a JSON value as a single string. Objects are kept as
// compact JSON (models sometimes return the example response as an object).
func flatString(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(v, &list); err == nil {
		items := make([]string, 0, len(list))
		for _, item := range list {
			if f := flatString(item); f != "" {
				items = append(items, f)
			}
		}
		return strings.Join(items, ", ")
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		if i, err := strconv.Atoi(n.String()); err == nil {
			return strconv.Itoa(i)
		}
		return n.String()
	}
	if string(v) == "null" {
		return ""
	}
	return strings.TrimSpace(string(v))
}
