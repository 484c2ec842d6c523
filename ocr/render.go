package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tsawler/pdfextract/internal/command"
)

// DefaultDPI is the resolution pages are rendered at for recognition
const DefaultDPI = 200

// Renderer rasterizes single PDF pages with poppler's pdftoppm.
type Renderer struct {
	// Command is the pdftoppm executable
	Command string

	DPI    int
	Runner command.Runner

	// TempDir is where intermediate images are written; empty means the
	// system default
	TempDir string
}

// NewRenderer creates a renderer. A zero dpi selects DefaultDPI.
func NewRenderer(runner command.Runner, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{
		Command: "pdftoppm",
		DPI:     dpi,
		Runner:  runner,
	}
}

// Render returns page (1-based) of the PDF at path as PNG data.
func (r *Renderer) Render(ctx context.Context, pdfPath string, page int) ([]byte, error) {
	dir, err := os.MkdirTemp(r.TempDir, "pdfextract-render-*")
	if err != nil {
		return nil, fmt.Errorf("creating render directory: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	n := strconv.Itoa(page)
	args := []string{
		"-r", strconv.Itoa(r.DPI),
		"-png",
		"-f", n, "-l", n,
		"-singlefile",
		pdfPath, prefix,
	}
	if _, err := r.Runner.Run(ctx, r.Command, args...); err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", page, err)
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("reading rendered page %d: %w", page, err)
	}
	return data, nil
}
