package plugin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePlugin(t *testing.T, dir, name string, files map[string]string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(path, file), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoad_FullMetadata(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "RunCommand", map[string]string{
		"README.md":        "# RunCommand\nExecutes system commands.",
		"requirements.txt": "requests>=2.0\n\npyyaml\n",
		"LICENSE":          "MIT License",
	})

	d, err := Load(dir, "RunCommand")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Title != "RunCommand" {
		t.Errorf("Title = %q", d.Title)
	}
	if !strings.Contains(d.Intro, "Executes system commands") {
		t.Errorf("Intro = %q", d.Intro)
	}
	if d.Licence != "MIT License" {
		t.Errorf("Licence = %q", d.Licence)
	}

	block := d.DependencyBlock()
	if !strings.Contains(block, "    requests>=2.0") {
		t.Errorf("DependencyBlock = %q, want indented requirement", block)
	}
	if !strings.Contains(block, "    pyyaml") {
		t.Errorf("DependencyBlock = %q, want blank lines dropped", block)
	}
}

func TestLoad_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "Bare", nil)

	d, err := Load(dir, "Bare")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Intro != NoIntro {
		t.Errorf("Intro = %q, want fallback", d.Intro)
	}
	if d.Depend != NoDepend {
		t.Errorf("Depend = %q, want fallback", d.Depend)
	}
	if d.Licence != NoLicence {
		t.Errorf("Licence = %q, want fallback", d.Licence)
	}
	if got := d.DependencyBlock(); got != NoDepend {
		t.Errorf("DependencyBlock = %q, want fallback passthrough", got)
	}
}

func TestLoad_NotInstalled(t *testing.T) {
	if _, err := Load(t.TempDir(), "Missing"); err == nil {
		t.Error("Load: want error for missing plugin")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "Beta", nil)
	writePlugin(t, dir, "Alpha", nil)
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Beta" {
		t.Errorf("List = %v, want [Alpha Beta]", names)
	}
}

func TestIndexURL(t *testing.T) {
	if got := IndexURL("RunCommand"); got != "https://github.com/IntelliMarkets/Jianer_Plugins_Index/tree/main/RunCommand" {
		t.Errorf("IndexURL = %q", got)
	}
	if got := IndexURL("My Plugin"); !strings.HasSuffix(got, "/My%20Plugin") {
		t.Errorf("IndexURL = %q, want path-escaped title", got)
	}
}
