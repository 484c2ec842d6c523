package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/ocr"
)

var (
	// ErrToolNotFound is returned when a required program is not on PATH
	ErrToolNotFound = errors.New("required tool not found")

	// ErrVersionTooOld is returned when a program is older than required
	ErrVersionTooOld = errors.New("version too old")

	// ErrLanguageMissing is returned when tesseract lacks a language
	ErrLanguageMissing = errors.New("tesseract language data not installed")
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Status is the outcome of checking one requirement
type Status struct {
	Requirement Requirement
	Path        string
	Version     string
	Err         error
}

// OK reports whether the requirement is satisfied
func (s Status) OK() bool {
	return s.Err == nil
}

// Report is the result of a full check
type Report struct {
	Statuses []Status

	// GoVersion is the runtime the binary was built with
	GoVersion string

	// OCR reports whether the binary was built with the ocr tag
	OCR bool
}

// OK reports whether every required tool is available
func (r Report) OK() bool {
	for _, s := range r.Statuses {
		if !s.OK() && !s.Requirement.Optional {
			return false
		}
	}
	return true
}

// Missing returns every unsatisfied requirement, optional ones included,
// in check order
func (r Report) Missing() []Requirement {
	var out []Requirement
	for _, s := range r.Statuses {
		if !s.OK() {
			out = append(out, s.Requirement)
		}
	}
	return out
}

// Err summarises the failed required checks, or returns nil
func (r Report) Err() error {
	var names []string
	var first error
	for _, s := range r.Statuses {
		if s.OK() || s.Requirement.Optional {
			continue
		}
		names = append(names, s.Requirement.Name)
		if first == nil {
			first = s.Err
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("missing %s: %w", strings.Join(names, ", "), first)
}

// Checker inspects the environment for requirements
type Checker struct {
	Runner command.Runner
	Logger *slog.Logger
}

// NewChecker returns a Checker using runner
func NewChecker(runner command.Runner) *Checker {
	return &Checker{Runner: runner, Logger: slog.New(slog.DiscardHandler)}
}

// Check inspects each requirement in order. Presence is checked before any
// other command runs.
func (c *Checker) Check(ctx context.Context, reqs []Requirement) Report {
	report := Report{
		GoVersion: runtime.Version(),
		OCR:       ocr.Enabled,
	}
	langs := map[string][]string{}

	for _, req := range reqs {
		st := Status{Requirement: req}

		path, err := c.Runner.LookPath(req.Command)
		if err != nil {
			st.Err = fmt.Errorf("%w: %s", ErrToolNotFound, req.Command)
			report.Statuses = append(report.Statuses, st)
			c.log().Debug("deps: not found", "tool", req.Command)
			continue
		}
		st.Path = path

		if len(req.VersionArgs) > 0 {
			st.Version, st.Err = c.version(ctx, req)
		}

		if st.Err == nil && req.Language != "" {
			available, ok := langs[req.Command]
			if !ok {
				available, err = c.languages(ctx, req.Command)
				if err != nil {
					st.Err = err
				}
				langs[req.Command] = available
			}
			if st.Err == nil && !slices.Contains(available, req.Language) {
				st.Err = fmt.Errorf("%w: %s", ErrLanguageMissing, req.Language)
			}
		}

		c.log().Debug("deps: checked", "name", req.Name, "path", st.Path, "version", st.Version, "error", st.Err)
		report.Statuses = append(report.Statuses, st)
	}
	return report
}

func (c *Checker) log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// version runs the version command. Output that carries no version number is
// accepted with an empty version.
func (c *Checker) version(ctx context.Context, req Requirement) (string, error) {
	out, err := c.Runner.Run(ctx, req.Command, req.VersionArgs...)
	if err != nil {
		return "", fmt.Errorf("probing %s version: %w", req.Command, err)
	}
	version, major, ok := parseVersion(string(out))
	if !ok {
		return "", nil
	}
	if req.MinMajor > 0 && major < req.MinMajor {
		return version, fmt.Errorf("%w: %s %s, need %d or newer", ErrVersionTooOld, req.Command, version, req.MinMajor)
	}
	return version, nil
}

// languages lists the installed tesseract languages
func (c *Checker) languages(ctx context.Context, cmd string) ([]string, error) {
	out, err := c.Runner.Run(ctx, cmd, "--list-langs")
	if err != nil {
		return nil, fmt.Errorf("listing %s languages: %w", cmd, err)
	}
	return parseLanguages(string(out)), nil
}

// parseVersion finds the first dotted version number in s
func parseVersion(s string) (version string, major int, ok bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	return m[0], major, true
}

// parseLanguages reads `tesseract --list-langs` output: a heading line
// followed by one language code per line
func parseLanguages(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") || strings.Contains(line, " ") {
			continue
		}
		out = append(out, line)
	}
	return out
}
