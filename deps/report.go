package deps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used for diagnostics. Colours are dropped when the output is not
// a terminal.
var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	headingStyle = lipgloss.NewStyle().Bold(true)
)

// OK, Warn and Error render a one-line coloured diagnostic
func OK(msg string) string    { return okStyle.Render("✓ " + msg) }
func Warn(msg string) string  { return warnStyle.Render("! " + msg) }
func Error(msg string) string { return errorStyle.Render("✗ " + msg) }

// Format renders the report, one line per requirement
func Format(r Report) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Environment"))
	b.WriteString("\n")
	b.WriteString(OK("go " + strings.TrimPrefix(r.GoVersion, "go")))
	b.WriteString("\n")
	if r.OCR {
		b.WriteString(OK("built with OCR support"))
	} else {
		b.WriteString(Warn("built without OCR support (rebuild with -tags ocr)"))
	}
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Tools"))
	b.WriteString("\n")
	for _, s := range r.Statuses {
		b.WriteString(formatStatus(s))
		b.WriteString("\n")
	}
	return b.String()
}

func formatStatus(s Status) string {
	req := s.Requirement
	purpose := mutedStyle.Render("(" + req.Purpose + ")")
	switch {
	case s.OK():
		detail := s.Path
		if s.Version != "" {
			detail = fmt.Sprintf("%s %s", s.Version, s.Path)
		}
		return fmt.Sprintf("%s %s", OK(req.Name+" "+detail), purpose)
	case req.Optional:
		return fmt.Sprintf("%s %s", Warn(fmt.Sprintf("%s: %v", req.Name, s.Err)), purpose)
	default:
		return fmt.Sprintf("%s %s", Error(fmt.Sprintf("%s: %v", req.Name, s.Err)), purpose)
	}
}
