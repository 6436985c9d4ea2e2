package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/intellimarkets/jianerctl/internal/config"
)

type settingsGetParams struct{}

func (h *handler) settingsGetHandler(ctx context.Context, req *mcp.CallToolRequest, _ settingsGetParams) (*mcp.CallToolResult, any, error) {
	s, err := config.Load(h.workspace)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load settings: %v", err))
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to render settings: %v", err))
	}
	return textResult(string(data))
}

type settingsSetParams struct {
	YAML string `json:"yaml" jsonschema:"YAML fragment merged over the current settings, e.g. 'tts:\n  enabled: true'"`
}

func (h *handler) settingsSetHandler(ctx context.Context, req *mcp.CallToolRequest, params settingsSetParams) (*mcp.CallToolResult, any, error) {
	if params.YAML == "" {
		return errorResult("yaml is required")
	}

	s, err := config.Load(h.workspace)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load settings: %v", err))
	}
	// Unmarshalling onto the loaded struct only touches present keys.
	if err := yaml.Unmarshal([]byte(params.YAML), s); err != nil {
		return errorResult(fmt.Sprintf("Invalid settings fragment: %v", err))
	}
	if err := config.Save(h.workspace, s); err != nil {
		return errorResult(fmt.Sprintf("Failed to save settings: %v", err))
	}
	return textResult("Settings saved to " + config.Path(h.workspace))
}
