package partition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/internal/pdftest"
	"github.com/tsawler/pdfextract/ocr"
	"github.com/tsawler/pdfextract/reader"
)

// mockRunner fakes poppler. Commands not in available fail LookPath; run
// handles Run calls.
type mockRunner struct {
	available map[string]bool
	run       func(name string, args []string) error
	calls     []string
}

var _ command.Runner = (*mockRunner)(nil)

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, command.String(name, args...))
	if m.run == nil {
		return nil, fmt.Errorf("%s: not expected", name)
	}
	return nil, m.run(name, args)
}

func (m *mockRunner) LookPath(name string) (string, error) {
	if m.available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("%w: %s", command.ErrNotFound, name)
}

// renderPNG makes pdftoppm calls write a blank page image
func renderPNG(width, height int) func(string, []string) error {
	return func(name string, args []string) error {
		if name != "pdftoppm" {
			return fmt.Errorf("unexpected command %s", name)
		}
		img := image.NewGray(image.Rect(0, 0, width, height))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		return os.WriteFile(args[len(args)-1]+".png", buf.Bytes(), 0o644)
	}
}

// fakeEngine returns the same words for every page
type fakeEngine struct {
	words []ocr.Word
	calls int
}

var _ ocr.Engine = (*fakeEngine)(nil)

func (f *fakeEngine) RecognizeWords([]byte) ([]ocr.Word, error) {
	f.calls++
	return f.words, nil
}

func (f *fakeEngine) SetLanguage(...string) error { return nil }
func (f *fakeEngine) SetDPI(int) error            { return nil }
func (f *fakeEngine) Close() error                { return nil }

// scannedLine lays words out like a 12pt line recognized at 144 dpi
func scannedLine(words ...string) []ocr.Word {
	var out []ocr.Word
	x := 144
	for _, w := range words {
		width := len(w) * 12
		out = append(out, ocr.Word{
			Text:       w,
			Bounds:     image.Rect(x, 200, x+width, 224),
			Confidence: 0.9,
		})
		x += width + 12
	}
	return out
}

// reportDoc is a two-page document: a title, a paragraph with a link, a
// ruled table and a small image on page 1, and one paragraph on page 2
func reportDoc() pdftest.Doc {
	content := pdftest.Text("F2", 20, 72, 700, "Annual Report") +
		pdftest.Text("F1", 12, 72, 660, "This report covers the results of the year.") +
		pdftest.Text("F1", 12, 72, 646, "Revenue grew in every region we serve.")

	for _, y := range []float64{500, 480, 460, 440} {
		content += pdftest.Rect(100, y-0.25, 300, 0.5)
	}
	for _, x := range []float64{100, 250, 400} {
		content += pdftest.Rect(x-0.25, 440, 0.5, 60)
	}
	cells := [][2]string{{"Name", "Age"}, {"Alice", "30"}, {"Bob", "41"}}
	for i, row := range cells {
		y := 485 - float64(i)*20
		content += pdftest.Text("F1", 10, 110, y, row[0]) + pdftest.Text("F1", 10, 260, y, row[1])
	}

	return pdftest.Doc{
		Title:   "Annual Report 2024",
		Author:  "Finance",
		Outline: []string{"Summary"},
		Pages: []pdftest.Page{
			{
				Content: content,
				Links:   []pdftest.Link{{Rect: [4]float64{72, 644, 120, 658}, URL: "https://example.com/revenue"}},
				Images: []pdftest.Image{{
					Width: 2, Height: 2, ColorSpace: "DeviceGray", BitsPerComponent: 8,
					Data: []byte{0, 255, 255, 0},
				}},
			},
			{Content: pdftest.Text("F1", 12, 72, 700, "Second page text goes here for testing.")},
		},
	}
}

// openDoc writes doc to a temp dir and opens it
func openDoc(t *testing.T, doc pdftest.Doc) (*reader.Reader, string) {
	t.Helper()
	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", doc)
	r, err := reader.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, path
}
