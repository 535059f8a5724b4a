package system

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// NoopRunner answers every command with empty output. The simulator's
// -no-exec flag uses it so themes with exec texts load without running
// anything.
type NoopRunner struct{}

func (NoopRunner) Output(ctx context.Context, argv []string) (string, error) { return "", nil }

// ShellRunner executes theme commands and logs failures with their stderr.
// Exec texts reach it as theme.ShellCommand argv, so they are evaluated by
// /bin/sh with pipes and substitutions.
type ShellRunner struct {
	Logger logger
}

func (r ShellRunner) Output(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf
	err := c.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			err = fmt.Errorf("exit %d: %w", exitErr.ExitCode(), err)
		}
		if r.Logger != nil {
			r.Logger.Errorf("exec", "%s: %v: %s", argv[0], err, strings.TrimSpace(errBuf.String()))
		}
		return outBuf.String(), err
	}
	return outBuf.String(), nil
}

// KernelCmdline returns the kernel command line read from path, usually
// /proc/cmdline.
func KernelCmdline(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
