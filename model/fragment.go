package model

import "strings"

// Fragment is a positioned run of text on a page, usually one word.
// X and Y are the baseline origin in PDF user space.
type Fragment struct {
	Text     string
	X, Y     float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64

	// Confidence is the OCR word confidence in [0, 1]; 1 for text-layer glyphs
	Confidence float64
}

// BBox returns the fragment's bounding box
func (f Fragment) BBox() BBox {
	return BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// Right returns the right edge X coordinate
func (f Fragment) Right() float64 {
	return f.X + f.Width
}

// IsBold reports whether the font name suggests a bold face
func (f Fragment) IsBold() bool {
	name := strings.ToLower(f.FontName)
	for _, hint := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// IsItalic reports whether the font name suggests an italic face
func (f Fragment) IsItalic() bool {
	name := strings.ToLower(f.FontName)
	return strings.Contains(name, "italic") || strings.Contains(name, "oblique")
}
