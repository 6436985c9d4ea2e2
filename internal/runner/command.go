package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Command is the executable part of an Invocation: either a free-form
// command line (Text) or a pre-split argument vector (Argv).
type Command interface {
	// Name returns the executable name used in diagnostics: the first
	// element of a vector, or the first whitespace-delimited word of a
	// command line.
	Name() string

	isCommand()
}

// Text is a free-form command line. Unless Invocation.Shell is set it is
// tokenized with shell-lexical splitting; malformed quoting falls back to
// running the original string through the shell rather than failing.
type Text string

// Argv is a pre-split argument vector. The first element is the binary
// name, resolved via PATH.
type Argv []string

func (c Text) isCommand() {}
func (c Argv) isCommand() {}

func (c Text) Name() string {
	fields := strings.Fields(string(c))
	if len(fields) == 0 {
		return string(c)
	}
	return fields[0]
}

func (c Argv) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// launch describes how a Command will actually be started: as an argument
// vector, or as a command line interpreted by the system shell.
type launch struct {
	argv  []string
	shell string
}

// resolveCommand validates cmd and turns it into a launch. A Text command
// that cannot be tokenized (malformed quoting) is demoted to shell mode
// with the original string.
func resolveCommand(cmd Command, useShell bool) (launch, error) {
	switch c := cmd.(type) {
	case Argv:
		if len(c) == 0 {
			return launch{}, errors.New("empty argument vector")
		}
		return launch{argv: c}, nil
	case Text:
		if strings.TrimSpace(string(c)) == "" {
			return launch{}, errors.New("empty command line")
		}
		if useShell {
			return launch{shell: string(c)}, nil
		}
		argv, err := shlex.Split(string(c))
		if err != nil || len(argv) == 0 {
			return launch{shell: string(c)}, nil
		}
		return launch{argv: argv}, nil
	case nil:
		return launch{}, errors.New("missing command")
	default:
		return launch{}, fmt.Errorf("unsupported command type %T", cmd)
	}
}
