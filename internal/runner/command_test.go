package runner

import (
	"reflect"
	"testing"
)

func TestResolveCommand_QuotedTokens(t *testing.T) {
	l, err := resolveCommand(Text(`"foo bar.exe" -x 1`), false)
	if err != nil {
		t.Fatalf("resolveCommand: %v", err)
	}
	want := []string{"foo bar.exe", "-x", "1"}
	if !reflect.DeepEqual(l.argv, want) {
		t.Errorf("argv = %v, want %v", l.argv, want)
	}
	if l.shell != "" {
		t.Errorf("shell = %q, want empty", l.shell)
	}
}

func TestResolveCommand_MalformedQuotingFallsBack(t *testing.T) {
	const line = `echo 'unterminated`
	l, err := resolveCommand(Text(line), false)
	if err != nil {
		t.Fatalf("resolveCommand: %v", err)
	}
	if l.shell != line {
		t.Errorf("shell = %q, want the original command line", l.shell)
	}
}

func TestResolveCommand_ShellRequested(t *testing.T) {
	l, err := resolveCommand(Text("echo a | wc -l"), true)
	if err != nil {
		t.Fatalf("resolveCommand: %v", err)
	}
	if l.shell != "echo a | wc -l" {
		t.Errorf("shell = %q, want the untokenized line", l.shell)
	}
}

func TestResolveCommand_Argv(t *testing.T) {
	l, err := resolveCommand(Argv{"git", "status"}, false)
	if err != nil {
		t.Fatalf("resolveCommand: %v", err)
	}
	if !reflect.DeepEqual(l.argv, []string{"git", "status"}) {
		t.Errorf("argv = %v", l.argv)
	}
}

func TestResolveCommand_Invalid(t *testing.T) {
	if _, err := resolveCommand(nil, false); err == nil {
		t.Error("nil command: want error")
	}
	if _, err := resolveCommand(Argv{}, false); err == nil {
		t.Error("empty argv: want error")
	}
	if _, err := resolveCommand(Text(""), false); err == nil {
		t.Error("empty text: want error")
	}
}

func TestCommandName(t *testing.T) {
	if got := Text("git status --short").Name(); got != "git" {
		t.Errorf("Text.Name() = %q, want 'git'", got)
	}
	if got := (Argv{"foo bar.exe", "-x"}).Name(); got != "foo bar.exe" {
		t.Errorf("Argv.Name() = %q, want 'foo bar.exe'", got)
	}
	if got := (Argv{}).Name(); got != "" {
		t.Errorf("empty Argv.Name() = %q, want empty", got)
	}
}
