package models

import "time"

// ── Status Code Explanation ──────────────────────────────────

// Category labels for the five status code classes.
const (
	CategoryInformational = "1xx Informational"
	CategorySuccess       = "2xx Success"
	CategoryRedirection   = "3xx Redirection"
	CategoryClientError   = "4xx Client Error"
	CategoryServerError   = "5xx Server Error"
	CategoryUnknown       = "Unknown"
)

// Valid status code range accepted by every entry point.
const (
	MinStatusCode = 100
	MaxStatusCode = 599
)

// StatusCodeExplanation is the educational description of one HTTP status code.
// Values are created once per request (or decoded from cache) and passed by value.
type StatusCodeExplanation struct {
	Code            int    `json:"code"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	WhenToUse       string `json:"whenToUse"`
	CommonScenarios string `json:"commonScenarios"`
	BestPractices   string `json:"bestPractices"`
	ExampleResponse string `json:"exampleResponse"`
	RelatedCodes    string `json:"relatedCodes"`
}

// Unavailable is the sentinel text carried by every descriptive field of a
// fallback explanation.
const Unavailable = "API unavailable"

// FallbackExplanation is returned whenever no provider explanation can be
// produced. Code is preserved; Name and Category are "Unknown".
func FallbackExplanation(code int) StatusCodeExplanation {
	return StatusCodeExplanation{
		Code:            code,
		Name:            CategoryUnknown,
		Category:        CategoryUnknown,
		Description:     Unavailable,
		WhenToUse:       Unavailable,
		CommonScenarios: Unavailable,
		BestPractices:   Unavailable,
		ExampleResponse: Unavailable,
		RelatedCodes:    Unavailable,
	}
}

// IsFallback reports whether e is a degraded fallback explanation.
func (e StatusCodeExplanation) IsFallback() bool {
	return e.Name == CategoryUnknown && e.Description == Unavailable
}

// ValidStatusCode reports whether code lies in the 100–599 range.
func ValidStatusCode(code int) bool {
	return code >= MinStatusCode && code <= MaxStatusCode
}

// CategoryFor returns the category label for a status code.
func CategoryFor(code int) string {
	switch code / 100 {
	case 1:
		return CategoryInformational
	case 2:
		return CategorySuccess
	case 3:
		return CategoryRedirection
	case 4:
		return CategoryClientError
	case 5:
		return CategoryServerError
	default:
		return CategoryUnknown
	}
}

// ── Catalog ──────────────────────────────────────────────────

// StatusCodeInfo is one row of the static status code catalog.
type StatusCodeInfo struct {
	Code     int    `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"-"`
}

// ── Agent Card ───────────────────────────────────────────────

// AgentCard describes this service to A2A clients.
type AgentCard struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Provider           AgentProvider     `json:"provider"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
	Skills             []AgentSkill      `json:"skills"`
}

// AgentProvider identifies the organization operating the agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitempty"`
}

// AgentCapabilities lists optional A2A protocol features.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// AgentSkill is one advertised ability of the agent.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	InputModes  []string `json:"inputModes,omitempty"`
	OutputModes []string `json:"outputModes,omitempty"`
}

// ── Health ───────────────────────────────────────────────────

// HealthStatus is the liveness payload served by /api/v1/health.
type HealthStatus struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Provider  string    `json:"provider"`
	Cache     string    `json:"cache"`
	Timestamp time.Time `json:"timestamp"`
}
