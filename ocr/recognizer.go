package ocr

import (
	"context"
	"fmt"
	"math"

	"github.com/tsawler/pdfextract/model"
)

// Recognizer OCRs whole PDF pages: render, prepare, recognize, convert.
type Recognizer struct {
	Renderer *Renderer
	Engine   Engine
	MaxSide  int
}

// NewRecognizer creates a recognizer
func NewRecognizer(renderer *Renderer, engine Engine) *Recognizer {
	return &Recognizer{
		Renderer: renderer,
		Engine:   engine,
		MaxSide:  MaxSide,
	}
}

// Page recognizes page number of the PDF at pdfPath. pageHeight is the page
// height in points, used to flip the image's top-left origin.
func (r *Recognizer) Page(ctx context.Context, pdfPath string, number int, pageHeight float64) ([]model.Fragment, error) {
	if r.Engine == nil {
		return nil, ErrOCRNotEnabled
	}

	rendered, err := r.Renderer.Render(ctx, pdfPath, number)
	if err != nil {
		return nil, err
	}

	prepared, scale, err := Prepare(rendered, r.MaxSide)
	if err != nil {
		return nil, fmt.Errorf("preparing page %d: %w", number, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Go's PNG encoder writes no resolution, so Tesseract is told the
	// effective DPI of the prepared image
	if err := r.Engine.SetDPI(effectiveDPI(r.Renderer.DPI, scale)); err != nil {
		return nil, fmt.Errorf("setting resolution for page %d: %w", number, err)
	}

	words, err := r.Engine.RecognizeWords(prepared)
	if err != nil {
		return nil, fmt.Errorf("recognizing page %d: %w", number, err)
	}

	return Fragments(words, r.Renderer.DPI, scale, pageHeight), nil
}

// effectiveDPI is the resolution of a render at dpi scaled by scale, kept
// within the range Tesseract accepts
func effectiveDPI(dpi int, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return min(2400, max(70, int(math.Round(float64(dpi)*scale))))
}
