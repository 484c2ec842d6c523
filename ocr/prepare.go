package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxSide caps the longest edge, in pixels, of an image handed to the
// recognizer. Larger renders are scaled down.
const MaxSide = 6000

// Prepare converts image data to an 8-bit grayscale PNG, scaling it down so
// that neither side exceeds maxSide (0 disables scaling). It returns the
// factor applied to the image so word boxes can be mapped back.
func Prepare(data []byte, maxSide int) ([]byte, float64, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	scale := 1.0
	w, h := bounds.Dx(), bounds.Dy()
	if longest := max(w, h); maxSide > 0 && longest > maxSide {
		scale = float64(maxSide) / float64(longest)
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if scale == 1 {
		draw.Draw(gray, gray.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(gray, gray.Bounds(), src, bounds, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, 0, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), scale, nil
}
