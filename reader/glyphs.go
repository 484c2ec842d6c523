package reader

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfextract/model"
)

// Spacing thresholds, as fractions of the font size
const (
	// wordGapRatio is the horizontal gap that separates two words
	wordGapRatio = 0.2
	// overlapRatio is how far a glyph may start left of the previous one
	overlapRatio = 0.5
	// baselineRatio is the vertical drift allowed within a word
	baselineRatio = 0.3

	fallbackFontSize = 10.0
)

// mergeGlyphs joins the engine's per-glyph output into word fragments.
// Glyphs are taken in content stream order; a word ends at a space glyph,
// a font change, a baseline change or a gap wider than wordGapRatio.
func mergeGlyphs(glyphs []pdf.Text) []model.Fragment {
	var fragments []model.Fragment
	var current *model.Fragment
	var sb strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(norm.NFKC.String(sb.String()))
		if text != "" {
			current.Text = text
			fragments = append(fragments, *current)
		}
		current = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		size := g.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}

		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}

		if current != nil && !continuesWord(*current, g, size) {
			flush()
		}

		if current == nil {
			current = &model.Fragment{
				X:          g.X,
				Y:          g.Y,
				Width:      g.W,
				Height:     size,
				FontName:   g.Font,
				FontSize:   size,
				Confidence: 1,
			}
		} else {
			right := math.Max(current.Right(), g.X+g.W)
			current.Width = right - current.X
		}
		sb.WriteString(g.S)
	}
	flush()

	return fragments
}

// continuesWord reports whether glyph g extends the fragment f
func continuesWord(f model.Fragment, g pdf.Text, size float64) bool {
	if g.Font != f.FontName || math.Abs(size-f.FontSize) > 0.5 {
		return false
	}
	if math.Abs(g.Y-f.Y) > size*baselineRatio {
		return false
	}
	gap := g.X - f.Right()
	return gap <= size*wordGapRatio && gap >= -size*overlapRatio
}
