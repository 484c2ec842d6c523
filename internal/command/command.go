// Package command runs external programs. Packages that shell out to
// poppler, tesseract or a package manager take a Runner so tests can swap in
// a fake.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotFound is returned by LookPath when a program is not on PATH.
var ErrNotFound = errors.New("executable not found")

// Runner executes external commands.
type Runner interface {
	// Run executes name with args and returns its standard output
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath resolves name to an absolute path
	LookPath(name string) (string, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct{}

// Run executes the command and waits for it to finish. On failure the
// returned error carries the command's standard error.
func (Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), fmt.Errorf("%s failed: %w", name, err)
		}
		return stdout.Bytes(), fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// LookPath resolves name on PATH.
func (Exec) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// String renders a command line for logs and dry runs
func String(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{name}, args...) {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			p = fmt.Sprintf("%q", p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
