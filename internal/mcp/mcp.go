// Package mcp provides the jianerctl MCP server: command execution,
// wizard settings, and plugin metadata tools for front-ends to drive.
package mcp

import (
	_ "embed"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/intellimarkets/jianerctl"
	"github.com/intellimarkets/jianerctl/internal/config"
	"github.com/intellimarkets/jianerctl/internal/history"
	"github.com/intellimarkets/jianerctl/internal/runner"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	runner    *runner.Runner
	store     history.Store
	workspace string // directory holding jianer.yaml and the plugin dir
}

// NewServer creates an MCP server with all jianerctl tools registered.
func NewServer(r *runner.Runner, store history.Store, workspace string) *mcp.Server {
	h := &handler{runner: r, store: store, workspace: workspace}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "jianerctl", Version: jianerctl.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "run_command",
		Description: `Execute an external command and return its structured outcome.

The outcome never fails the tool call: framework failures surface as negative
return codes (-2 bad command, -3 timeout, -4 not found, -5 permission denied,
-6 interrupted, -1 unknown) with a diagnostic in stderr. A non-zero child exit
is a normal outcome. Outcomes are stored for drill-down via run_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "run_inspect",
		Description: "Reload the stored outcome of a previous run_command call by its run ID.",
	}, h.inspectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "settings_get",
		Description: "Read the current wizard settings (jianer.yaml) as YAML.",
	}, h.settingsGetHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "settings_set",
		Description: `Merge a YAML fragment over the current wizard settings and save them.

Only the keys present in the fragment change; everything else is kept.`,
	}, h.settingsSetHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "plugin_info",
		Description: `Show an installed plugin's metadata: intro, dependencies, licence, and
its page in the Jianer plugin index. With no name, lists installed plugins.`,
	}, h.pluginInfoHandler)

	return s
}

// commandTimeout returns the workspace's configured command timeout.
func (h *handler) commandTimeout() time.Duration {
	s, err := config.Load(h.workspace)
	if err != nil {
		return runner.DefaultTimeout
	}
	return s.CommandTimeout()
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
