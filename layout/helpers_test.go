package layout

import (
	"strings"

	"github.com/tsawler/pdfextract/model"
)

// frag creates a word fragment whose width follows a fixed half-em advance
func frag(text string, x, y, size float64, font string) model.Fragment {
	return model.Fragment{
		Text:       text,
		X:          x,
		Y:          y,
		Width:      float64(len([]rune(text))) * size * 0.5,
		Height:     size,
		FontName:   font,
		FontSize:   size,
		Confidence: 1,
	}
}

// words lays out a sentence as word fragments starting at x
func words(sentence string, x, y, size float64, font string) []model.Fragment {
	var out []model.Fragment
	for _, w := range strings.Fields(sentence) {
		f := frag(w, x, y, size, font)
		out = append(out, f)
		x = f.Right() + size*0.25
	}
	return out
}

// paragraph lays out lines with a fixed leading, top line first
func paragraph(lines []string, x, top, size, leading float64, font string) []model.Fragment {
	var out []model.Fragment
	for i, l := range lines {
		out = append(out, words(l, x, top-float64(i)*leading, size, font)...)
	}
	return out
}
