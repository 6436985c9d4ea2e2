package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/intellimarkets/jianerctl/internal/config"
	"github.com/intellimarkets/jianerctl/internal/plugin"
)

type pluginInfoParams struct {
	Name string `json:"name,omitempty" jsonschema:"directory name of the installed plugin; empty lists installed plugins"`
}

func (h *handler) pluginInfoHandler(ctx context.Context, req *mcp.CallToolRequest, params pluginInfoParams) (*mcp.CallToolResult, any, error) {
	s, err := config.Load(h.workspace)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load settings: %v", err))
	}
	dir := s.PluginDir(h.workspace)

	if params.Name == "" {
		names, err := plugin.List(dir)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to list plugins: %v", err))
		}
		if len(names) == 0 {
			return textResult("No plugins installed under " + dir + ".")
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Installed plugins (%d):\n", len(names))
		for _, name := range names {
			fmt.Fprintf(&b, "  %s\n", name)
		}
		return textResult(b.String())
	}

	d, err := plugin.Load(dir, params.Name)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load plugin: %v", err))
	}
	return textResult(formatDetails(d))
}

func formatDetails(d *plugin.Details) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plugin: %s\n", d.Title)
	fmt.Fprintf(&b, "Index page: %s\n", plugin.IndexURL(d.Title))
	fmt.Fprintf(&b, "\nIntro:\n%s\n", strings.TrimRight(d.Intro, "\n"))
	fmt.Fprintf(&b, "\nDependencies:\n%s\n", d.DependencyBlock())
	fmt.Fprintf(&b, "\nLicence:\n%s\n", strings.TrimRight(d.Licence, "\n"))
	return b.String()
}
