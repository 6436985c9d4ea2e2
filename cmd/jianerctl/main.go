// Command jianerctl drives Jianer setup tasks: it runs installation and
// configuration commands, manages the wizard settings, inspects installed
// plugins, and serves the same operations over MCP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/intellimarkets/jianerctl"
	"github.com/intellimarkets/jianerctl/internal/config"
	"github.com/intellimarkets/jianerctl/internal/history"
	jmcp "github.com/intellimarkets/jianerctl/internal/mcp"
	"github.com/intellimarkets/jianerctl/internal/plugin"
	"github.com/intellimarkets/jianerctl/internal/runner"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("jianerctl: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "mcp":
		err = mcpMain(args)
	case "settings":
		err = settingsMain(args)
	case "plugin":
		err = pluginMain(args)
	case "version":
		fmt.Println(jianerctl.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "jianerctl: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: jianerctl <command> [flags] [args]

Commands:
  run         Execute an external command and report its outcome
  settings    Show or initialise the wizard settings (jianer.yaml)
  plugin      Show installed plugin metadata
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "jianerctl <command> -h" for command-specific flags.`)
}

// --- run ---

// envFlags collects repeatable KEY=VALUE environment overrides.
type envFlags map[string]string

func (e envFlags) String() string {
	var parts []string
	for k, v := range e {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (e envFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected KEY=VALUE, got %q", value)
	}
	e[key] = val
	return nil
}

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	timeoutFlag := fs.Duration("timeout", 0, "maximum wait for the command (default from settings)")
	shellFlag := fs.Bool("shell", false, "run the command line through the system shell")
	encodingFlag := fs.String("encoding", "", "IANA encoding of the command output (default utf-8)")
	errorsFlag := fs.String("errors", "", "decode policy for undecodable bytes: ignore, replace or strict")
	inputFlag := fs.String("input", "", "text written to the child's stdin")
	jsonFlag := fs.Bool("json", false, "print the outcome as JSON")
	env := envFlags{}
	fs.Var(env, "env", "environment override KEY=VALUE (repeatable)")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("run: command required")
	}
	// A single argument is a command line to tokenize; several are an
	// already-split argument vector.
	var cmd runner.Command
	if len(rest) == 1 {
		cmd = runner.Text(rest[0])
	} else {
		cmd = runner.Argv(rest)
	}

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	settings, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	timeout := settings.CommandTimeout()
	if *timeoutFlag > 0 {
		timeout = *timeoutFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inv := runner.Invocation{
		Command:   cmd,
		Timeout:   timeout,
		Encoding:  *encodingFlag,
		Errors:    runner.DecodePolicy(*errorsFlag),
		Shell:     *shellFlag,
		InputText: *inputFlag,
	}
	if len(env) > 0 {
		inv.Env = env
	}

	r := &runner.Runner{MaxOutput: settings.MaxOutputBytes()}
	out := r.Execute(ctx, inv)

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		if out.Stdout != nil && *out.Stdout != "" {
			fmt.Print(*out.Stdout)
		}
		if out.Stderr != "" {
			fmt.Fprintln(os.Stderr, strings.TrimRight(out.Stderr, "\n"))
		}
	}

	// Mirror the child's exit code; sentinel codes collapse to 1.
	if out.ReturnCode > 0 {
		os.Exit(out.ReturnCode)
	}
	if out.Failed() {
		os.Exit(1)
	}
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(jmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr)
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	settings, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store := history.NewLRUStore(16, history.NewDiskStore(""))
	r := &runner.Runner{MaxOutput: settings.MaxOutputBytes()}
	server := jmcp.NewServer(r, store, workspace)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- settings ---

func settingsMain(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	initFlag := fs.Bool("init", false, "write a default jianer.yaml if none exists")
	_ = fs.Parse(args)

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	if *initFlag {
		path := config.Path(workspace)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("settings: %s already exists", path)
		}
		if err := config.Save(workspace, config.Default()); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	}

	settings, err := config.Load(workspace)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("rendering settings: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// --- plugin ---

func pluginMain(args []string) error {
	fs := flag.NewFlagSet("plugin", flag.ExitOnError)
	openFlag := fs.Bool("open", false, "open the plugin's index page in the browser")
	_ = fs.Parse(args)

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	settings, err := config.Load(workspace)
	if err != nil {
		return err
	}
	dir := settings.PluginDir(workspace)

	names := fs.Args()
	if len(names) == 0 {
		installed, err := plugin.List(dir)
		if err != nil {
			return err
		}
		if len(installed) == 0 {
			fmt.Printf("no plugins installed under %s\n", dir)
			return nil
		}
		for _, name := range installed {
			fmt.Println(name)
		}
		return nil
	}

	d, err := plugin.Load(dir, names[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *openFlag {
		r := &runner.Runner{MaxOutput: settings.MaxOutputBytes()}
		out := plugin.OpenIndexPage(ctx, r, d.Title)
		if out.Failed() {
			return fmt.Errorf("opening index page: %s", strings.TrimSpace(out.Stderr))
		}
	}

	fmt.Printf("Plugin: %s\n", d.Title)
	fmt.Printf("Index page: %s\n", plugin.IndexURL(d.Title))
	fmt.Printf("\n%s\n", strings.TrimRight(d.Intro, "\n"))
	fmt.Printf("\n%s\n", d.DependencyBlock())
	fmt.Printf("\nLicence:\n%s\n", strings.TrimRight(d.Licence, "\n"))
	return nil
}
