// Package plugin reads the displayable metadata of installed Jianer
// plugins and composes their plugin-index URLs.
package plugin

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/intellimarkets/jianerctl/internal/runner"
)

// indexBaseURL is the fixed plugin-index location; a plugin's page is
// indexBaseURL + its title.
const indexBaseURL = "https://github.com/IntelliMarkets/Jianer_Plugins_Index/tree/main/"

// Fallback text shown when a metadata file is missing or empty.
const (
	NoIntro   = "No description available (README.md)"
	NoDepend  = "No dependencies declared (requirements.txt)"
	NoLicence = "No licence provided (LICENSE)"
)

// Details holds the displayable metadata of one installed plugin.
type Details struct {
	Title   string `json:"title"`
	Intro   string `json:"intro"`   // markdown, from README.md
	Depend  string `json:"depend"`  // raw requirements.txt
	Licence string `json:"licence"` // from LICENSE
}

// Load reads a plugin's metadata from <dir>/<name>. Missing metadata
// files fall back to fixed placeholder text; a missing plugin directory
// is an error.
func Load(dir, name string) (*Details, error) {
	path := filepath.Join(dir, name)
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("plugin %q is not installed under %s", name, dir)
	}

	d := &Details{
		Title:   name,
		Intro:   NoIntro,
		Depend:  NoDepend,
		Licence: NoLicence,
	}
	if text, ok := readMeta(filepath.Join(path, "README.md")); ok {
		d.Intro = text
	}
	if text, ok := readMeta(filepath.Join(path, "requirements.txt")); ok {
		d.Depend = text
	}
	if text, ok := readMeta(filepath.Join(path, "LICENSE")); ok {
		d.Licence = text
	}
	return d, nil
}

func readMeta(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return "", false
	}
	return string(data), true
}

// List returns the names of installed plugins, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading plugin directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DependencyBlock renders the dependency list the way the plugin dialog
// shows it: a header line followed by each requirement indented.
func (d *Details) DependencyBlock() string {
	if d.Depend == NoDepend {
		return d.Depend
	}
	var b strings.Builder
	b.WriteString("This plugin requires the following libraries:\n")
	for _, line := range strings.Split(d.Depend, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// IndexURL returns the plugin's page in the Jianer plugin index.
func IndexURL(title string) string {
	return indexBaseURL + url.PathEscape(title)
}

// OpenIndexPage opens the plugin's index page in the OS browser,
// launched through the command runner.
func OpenIndexPage(ctx context.Context, r *runner.Runner, title string) *runner.Outcome {
	return r.Execute(ctx, runner.Invocation{
		Command: openerCommand(IndexURL(title)),
		Timeout: 10 * time.Second,
	})
}

func openerCommand(u string) runner.Argv {
	switch runtime.GOOS {
	case "darwin":
		return runner.Argv{"open", u}
	case "windows":
		return runner.Argv{"rundll32", "url.dll,FileProtocolHandler", u}
	default:
		return runner.Argv{"xdg-open", u}
	}
}
