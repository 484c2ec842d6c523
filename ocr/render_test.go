package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	r := NewRenderer(&mockRunner{}, 0)
	assert.Equal(t, DefaultDPI, r.DPI)
	assert.Equal(t, "pdftoppm", r.Command)

	r = NewRenderer(&mockRunner{}, 300)
	assert.Equal(t, 300, r.DPI)
}

func TestRender(t *testing.T) {
	want := createTestPNG(60, 40)
	runner := &mockRunner{image: want}
	r := NewRenderer(runner, 150)
	r.TempDir = t.TempDir()

	got, err := r.Render(context.Background(), "/docs/scan.pdf", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, []string{"pdftoppm", "-r", "150", "-png", "-f", "3", "-l", "3", "-singlefile", "/docs/scan.pdf"}, call[:10])
}

func TestRenderErrors(t *testing.T) {
	t.Run("command fails", func(t *testing.T) {
		r := NewRenderer(&mockRunner{err: errBoom}, 0)
		r.TempDir = t.TempDir()

		_, err := r.Render(context.Background(), "scan.pdf", 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "rendering page 2")
	})

	t.Run("no output file", func(t *testing.T) {
		r := NewRenderer(&mockRunner{}, 0)
		r.TempDir = t.TempDir()

		_, err := r.Render(context.Background(), "scan.pdf", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading rendered page 1")
	})
}
