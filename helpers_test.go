package pdfextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/internal/pdftest"
	"github.com/tsawler/pdfextract/ocr"
)

// fakePoppler renders blank pages for pdftoppm; every other tool is missing
type fakePoppler struct {
	width, height int
}

func (f fakePoppler) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	if name != "pdftoppm" {
		return nil, fmt.Errorf("unexpected command %s", command.String(name, args...))
	}
	img := image.NewGray(image.Rect(0, 0, f.width, f.height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return nil, os.WriteFile(args[len(args)-1]+".png", buf.Bytes(), 0o644)
}

func (f fakePoppler) LookPath(name string) (string, error) {
	if name == "pdftoppm" {
		return "/usr/bin/pdftoppm", nil
	}
	return "", fmt.Errorf("%w: %s", command.ErrNotFound, name)
}

// offline returns an extractor that never touches real poppler or tesseract
func offline(path string) *Extractor {
	e := Open(path).withRunner(fakePoppler{width: 612, height: 792}).OCRDPI(72)
	e.options.newEngine = func() (ocr.Engine, error) { return nil, errors.New("no OCR in tests") }
	return e
}

// reportDoc is a two-page document: a bold title, a paragraph, a ruled
// table and a small image on page 1, and one paragraph on page 2
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
		Title: "Annual Report 2024",
		Pages: []pdftest.Page{
			{
				Content: content,
				Images: []pdftest.Image{{
					Width: 2, Height: 2, ColorSpace: "DeviceGray", BitsPerComponent: 8,
					Data: []byte{0, 255, 255, 0},
				}},
			},
			{Content: pdftest.Text("F1", 12, 72, 700, "Second page text goes here for testing.")},
		},
	}
}

func writeReport(t *testing.T) string {
	t.Helper()
	return pdftest.WriteFile(t, t.TempDir(), "report.pdf", reportDoc())
}
