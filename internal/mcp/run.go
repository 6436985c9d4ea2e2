package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/intellimarkets/jianerctl/internal/history"
	"github.com/intellimarkets/jianerctl/internal/runner"
)

type runParams struct {
	Command        string            `json:"command,omitempty" jsonschema:"command line to execute; tokenized with shell-lexical splitting unless shell is set"`
	Argv           []string          `json:"argv,omitempty" jsonschema:"pre-split argument vector; takes precedence over command"`
	TimeoutSeconds float64           `json:"timeout_seconds,omitempty" jsonschema:"maximum wall-clock seconds to wait (default from the wizard settings)"`
	Encoding       string            `json:"encoding,omitempty" jsonschema:"IANA name used to decode the command's output (default utf-8)"`
	Errors         string            `json:"errors,omitempty" jsonschema:"decode policy for undecodable bytes: ignore, replace or strict"`
	Shell          bool              `json:"shell,omitempty" jsonschema:"run the command line through the system shell, enabling metacharacters"`
	Input          string            `json:"input,omitempty" jsonschema:"text written to the child's stdin"`
	Env            map[string]string `json:"env,omitempty" jsonschema:"environment overrides merged over the current process environment"`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	var cmd runner.Command
	var display string
	switch {
	case len(params.Argv) > 0:
		cmd = runner.Argv(params.Argv)
		display = strings.Join(params.Argv, " ")
	case params.Command != "":
		cmd = runner.Text(params.Command)
		display = params.Command
	default:
		return errorResult("command or argv is required")
	}

	inv := runner.Invocation{
		Command:   cmd,
		Encoding:  params.Encoding,
		Errors:    runner.DecodePolicy(params.Errors),
		Shell:     params.Shell,
		InputText: params.Input,
		Env:       params.Env,
	}
	if params.TimeoutSeconds > 0 {
		inv.Timeout = time.Duration(params.TimeoutSeconds * float64(time.Second))
	} else {
		inv.Timeout = h.commandTimeout()
	}

	started := time.Now()
	out := h.runner.Execute(ctx, inv)

	// Best effort: an unsaved record only loses run_inspect, not the result.
	_ = h.store.Save(&history.Record{
		ID:        out.RunID,
		Command:   display,
		StartedAt: started,
		Outcome:   out,
	})

	return textResult(formatOutcome(display, out))
}

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a previous run_command result"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}
	rec, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}
	return textResult(formatOutcome(rec.Command, rec.Outcome))
}

func formatOutcome(command string, out *runner.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", out.RunID)
	fmt.Fprintf(&b, "Command: %s\n", command)
	fmt.Fprintf(&b, "Return code: %d\n", out.ReturnCode)
	if out.TimedOut {
		fmt.Fprintln(&b, "Timed out: true")
	}
	if out.Stdout != nil && *out.Stdout != "" {
		fmt.Fprintf(&b, "\nStdout:\n%s\n", strings.TrimRight(*out.Stdout, "\n"))
	}
	if out.Stderr != "" {
		fmt.Fprintf(&b, "\nStderr:\n%s\n", strings.TrimRight(out.Stderr, "\n"))
	}
	return b.String()
}
