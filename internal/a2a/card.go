package a2a

import (
	"strings"

	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// EndpointPath is where the JSON-RPC handler is mounted.
const EndpointPath = "/api/v1/a2a/status-code-teacher"

// BuildAgentCard describes this agent. The card URL is AGENT_URL when set,
// otherwise the endpoint under baseURL.
func BuildAgentCard(cfg *config.Config, baseURL string) models.AgentCard {
	url := cfg.Agent.URL
	if url == "" {
		url = strings.TrimRight(baseURL, "/") + EndpointPath
	}
	return models.AgentCard{
		ID:          cfg.Agent.ID,
		Name:        cfg.Agent.Name,
		Description: cfg.Agent.Description,
		URL:         url,
		Version:     cfg.Version,
		Provider: models.AgentProvider{
			Organization: cfg.Agent.ProviderOrg,
			URL:          cfg.Agent.ProviderURL,
		},
		Capabilities:       models.AgentCapabilities{},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills: []models.AgentSkill{{
			ID:          "explain-status-code",
			Name:        "Explain HTTP status code",
			Description: "Explains what an HTTP status code means, when to use it, common scenarios and best practices.",
			Tags:        []string{"http", "status-codes", "education"},
			Examples:    []string{"What does 404 mean?", "Explain 503", "When should I return 201?"},
			InputModes:  []string{"text/plain"},
			OutputModes: []string{"text/plain"},
		}},
	}
}
