package ocr

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizerPage(t *testing.T) {
	engine := &fakeEngine{words: []Word{
		{Text: "Invoice", Bounds: image.Rect(144, 144, 432, 192), Confidence: 0.8},
		{Text: "42", Bounds: image.Rect(480, 144, 528, 192), Confidence: 0.6},
	}}
	renderer := NewRenderer(&mockRunner{image: createTestPNG(100, 50)}, 144)
	renderer.TempDir = t.TempDir()

	fragments, err := NewRecognizer(renderer, engine).Page(context.Background(), "scan.pdf", 1, 792)
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.NotEmpty(t, engine.received, "engine gets the prepared image")
	assert.Equal(t, 144, engine.dpi)

	assert.Equal(t, "Invoice", fragments[0].Text)
	assert.InDelta(t, 72, fragments[0].X, 0.001)
	assert.InDelta(t, 696, fragments[0].Y, 0.001)
	assert.InDelta(t, 24, fragments[0].FontSize, 0.001)
	assert.InDelta(t, 0.7, MeanConfidence(fragments), 0.001)
}

func TestRecognizerErrors(t *testing.T) {
	t.Run("no engine", func(t *testing.T) {
		r := NewRecognizer(NewRenderer(&mockRunner{}, 0), nil)
		_, err := r.Page(context.Background(), "scan.pdf", 1, 792)
		assert.ErrorIs(t, err, ErrOCRNotEnabled)
	})

	t.Run("engine fails", func(t *testing.T) {
		renderer := NewRenderer(&mockRunner{image: createTestPNG(10, 10)}, 0)
		renderer.TempDir = t.TempDir()

		_, err := NewRecognizer(renderer, &fakeEngine{err: errBoom}).Page(context.Background(), "scan.pdf", 4, 792)
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "recognizing page 4")
	})

	t.Run("resolution rejected", func(t *testing.T) {
		renderer := NewRenderer(&mockRunner{image: createTestPNG(10, 10)}, 0)
		renderer.TempDir = t.TempDir()

		_, err := NewRecognizer(renderer, &fakeEngine{dpiErr: errBoom}).Page(context.Background(), "scan.pdf", 2, 792)
		require.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "setting resolution for page 2")
	})

	t.Run("cancelled", func(t *testing.T) {
		renderer := NewRenderer(&mockRunner{image: createTestPNG(10, 10)}, 0)
		renderer.TempDir = t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewRecognizer(renderer, &fakeEngine{}).Page(ctx, "scan.pdf", 1, 792)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEffectiveDPI(t *testing.T) {
	tests := []struct {
		name  string
		dpi   int
		scale float64
		want  int
	}{
		{"unscaled", 300, 1, 300},
		{"downscaled", 600, 0.5, 300},
		{"rounds", 300, 0.333, 100},
		{"floor", 72, 0.5, 70},
		{"ceiling", 600, 5, 2400},
		{"no scale", 200, 0, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, effectiveDPI(tt.dpi, tt.scale))
		})
	}
}
