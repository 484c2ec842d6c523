package ocr

import (
	"github.com/tsawler/pdfextract/model"
)

// Fragments converts words recognized on a page image rendered at dpi, then
// scaled by scale, into fragments in PDF points with a bottom-left origin.
func Fragments(words []Word, dpi int, scale, pageHeight float64) []model.Fragment {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if scale <= 0 {
		scale = 1
	}
	pxPerPoint := float64(dpi) / 72 * scale

	fragments := make([]model.Fragment, 0, len(words))
	for _, w := range words {
		if w.Text == "" || w.Bounds.Empty() {
			continue
		}
		height := float64(w.Bounds.Dy()) / pxPerPoint
		fragments = append(fragments, model.Fragment{
			Text:       w.Text,
			X:          float64(w.Bounds.Min.X) / pxPerPoint,
			Y:          pageHeight - float64(w.Bounds.Max.Y)/pxPerPoint,
			Width:      float64(w.Bounds.Dx()) / pxPerPoint,
			Height:     height,
			FontSize:   height,
			Confidence: w.Confidence,
		})
	}
	return fragments
}

// MeanConfidence averages the confidence of the fragments, 0 when empty
func MeanConfidence(fragments []model.Fragment) float64 {
	if len(fragments) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range fragments {
		sum += f.Confidence
	}
	return sum / float64(len(fragments))
}
