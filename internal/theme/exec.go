package theme

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner runs a command for text objects using exec and returns its
// standard output.
type Runner interface {
	Output(ctx context.Context, argv []string) (string, error)
}

// DefaultExecTimeout bounds exec commands so a hung helper cannot stall the
// theme load.
const DefaultExecTimeout = 2 * time.Second

// Shell evaluates exec texts.
const Shell = "/bin/sh"

// ShellCommand returns the argv that evaluates cmdline with Shell.
func ShellCommand(cmdline string) []string { return []string{Shell, "-c", cmdline} }

type commandRunner struct{}

func (commandRunner) Output(ctx context.Context, argv []string) (string, error) {
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	return string(out), err
}

// runExec evaluates cmdline with the shell and returns its output with
// trailing newlines removed.
func runExec(r Runner, timeout time.Duration, cmdline string) (string, error) {
	if strings.TrimSpace(cmdline) == "" {
		return "", fmt.Errorf("empty command")
	}
	if r == nil {
		r = commandRunner{}
	}
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := r.Output(ctx, ShellCommand(cmdline))
	if err != nil {
		return "", fmt.Errorf("run %q: %w", cmdline, err)
	}
	return strings.TrimRight(out, "\r\n"), nil
}
