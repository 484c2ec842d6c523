package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tsawler/pdfextract/internal/command"
)

var (
	// ErrInstallFailed wraps the first package-manager command that fails
	ErrInstallFailed = errors.New("install failed")

	// ErrNoPackage is returned when a requirement has no package for the
	// detected manager
	ErrNoPackage = errors.New("no package for requirement")
)

// Step is one package-manager invocation
type Step struct {
	Package string // empty for the index refresh
	Name    string
	Args    []string
}

// String renders the step as a command line
func (s Step) String() string {
	return command.String(s.Name, s.Args...)
}

// Installer installs missing requirements through a package manager
type Installer struct {
	Runner  command.Runner
	Manager Manager

	// Sudo prefixes every command with sudo
	Sudo bool

	// DryRun prints the plan to Out without running anything
	DryRun bool
	Out    io.Writer

	Logger *slog.Logger
}

// NewInstaller returns an Installer for manager. Sudo is used on Linux
// when not running as root and sudo is on PATH.
func NewInstaller(runner command.Runner, manager Manager) *Installer {
	i := &Installer{
		Runner:  runner,
		Manager: manager,
		Out:     io.Discard,
		Logger:  slog.New(slog.DiscardHandler),
	}
	if needsSudo(manager) {
		if _, err := runner.LookPath("sudo"); err == nil {
			i.Sudo = true
		}
	}
	return i
}

// Plan returns the commands Install would run, in order. Packages shared
// by several requirements are installed once.
func (i *Installer) Plan(missing []Requirement) ([]Step, error) {
	var steps []Step
	seen := map[string]bool{}
	for _, req := range missing {
		pkg, ok := req.Package(i.Manager)
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrNoPackage, req.Name, i.Manager)
		}
		if seen[pkg] {
			continue
		}
		seen[pkg] = true
		steps = append(steps, i.step(pkg, installArgs(i.Manager, pkg)))
	}
	if len(steps) == 0 {
		return nil, nil
	}
	if args := refreshArgs(i.Manager); args != nil {
		steps = append([]Step{i.step("", args)}, steps...)
	}
	return steps, nil
}

func (i *Installer) step(pkg string, args []string) Step {
	if i.Sudo {
		return Step{Package: pkg, Name: "sudo", Args: append([]string{string(i.Manager)}, args...)}
	}
	return Step{Package: pkg, Name: string(i.Manager), Args: args}
}

// Install runs the plan one command at a time, stopping at the first
// failure. There is no retry.
func (i *Installer) Install(ctx context.Context, missing []Requirement) error {
	steps, err := i.Plan(missing)
	if err != nil {
		return err
	}
	out := i.Out
	if out == nil {
		out = io.Discard
	}
	logger := i.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, s := range steps {
		if i.DryRun {
			fmt.Fprintln(out, s.String())
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("deps: running", "command", s.String())
		if _, err := i.Runner.Run(ctx, s.Name, s.Args...); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, s.String(), err)
		}
	}
	return nil
}

// Verify re-checks reqs after an install. Any missing required tool is an
// error wrapping ErrToolNotFound, ErrVersionTooOld or ErrLanguageMissing.
func Verify(ctx context.Context, checker *Checker, reqs []Requirement) (Report, error) {
	report := checker.Check(ctx, reqs)
	return report, report.Err()
}
