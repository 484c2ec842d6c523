package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/tsawler/pdfextract/internal/command"
)

// createTestPNG creates a white PNG with a black bar, like a scanned line
func createTestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < min(50, width); x++ {
		for y := 10; y < min(30, height); y++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// mockRunner plays pdftoppm: it writes image to the output prefix
type mockRunner struct {
	image []byte
	err   error
	calls [][]string
}

var _ command.Runner = (*mockRunner)(nil)

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.err != nil {
		return nil, m.err
	}
	if m.image != nil && len(args) > 0 {
		if err := os.WriteFile(args[len(args)-1]+".png", m.image, 0o644); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (m *mockRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

// fakeEngine returns canned words
type fakeEngine struct {
	words    []Word
	err      error
	received []byte
	dpi      int
	dpiErr   error
}

var _ Engine = (*fakeEngine)(nil)

func (f *fakeEngine) RecognizeWords(imageData []byte) ([]Word, error) {
	f.received = imageData
	return f.words, f.err
}

func (f *fakeEngine) SetLanguage(langs ...string) error { return nil }
func (f *fakeEngine) Close() error                      { return nil }

func (f *fakeEngine) SetDPI(dpi int) error {
	f.dpi = dpi
	return f.dpiErr
}

var errBoom = errors.New("boom")
