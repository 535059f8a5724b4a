//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	// Dup3 rather than Dup2: arm64 has no dup2 syscall.
	if err := unix.Dup3(int(f.Fd()), int(os.Stdout.Fd()), 0); err != nil {
		return err
	}
	return unix.Dup3(int(f.Fd()), int(os.Stderr.Fd()), 0)
}
