package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfextract/model"
)

// ErrPageOutOfRange is returned when a page number is outside the document
var ErrPageOutOfRange = errors.New("page number out of range")

// Default page size (US Letter) used when a page has no usable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	// ruleThickness is the maximum size of a drawn rectangle treated as a line
	ruleThickness = 2.0
)

// Reader represents an open PDF document
type Reader struct {
	file *os.File
	pdf  *pdf.Reader
}

// Page holds the content of a single page
type Page struct {
	// Number is the 1-based page number
	Number int

	Width  float64
	Height float64

	// Fragments are word-level text runs in content stream order
	Fragments []model.Fragment

	// Rules are ruling lines derived from drawn rectangles
	Rules []model.Rule
}

// HasText reports whether the page carries a usable text layer
func (p *Page) HasText() bool {
	for _, f := range p.Fragments {
		if f.Text != "" {
			return true
		}
	}
	return false
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	r, err := NewReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// NewReader creates a Reader over any random-access source. The caller keeps
// ownership of src.
func NewReader(src io.ReaderAt, size int64) (r *Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	pr, err := pdf.NewReader(src, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return &Reader{pdf: pr}, nil
}

// Close releases the underlying file, if the Reader opened it
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// PageCount returns the number of pages
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// Page loads the content of page n (1-based)
func (r *Reader) Page(n int) (page *Page, err error) {
	if n < 1 || n > r.PageCount() {
		return nil, fmt.Errorf("page %d: %w", n, ErrPageOutOfRange)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: malformed content: %v", n, rec)
		}
	}()

	p := r.pdf.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing page object", n)
	}

	width, height := mediaBox(p.V)
	page = &Page{Number: n, Width: width, Height: height}

	content := p.Content()
	page.Fragments = mergeGlyphs(content.Text)
	for _, rect := range content.Rect {
		box := model.NewBBoxFromPoints(
			model.Point{X: rect.Min.X, Y: rect.Min.Y},
			model.Point{X: rect.Max.X, Y: rect.Max.Y},
		)
		page.Rules = append(page.Rules, model.RulesFromRect(box, ruleThickness)...)
	}

	return page, nil
}

// Info returns the document information dictionary fields
func (r *Reader) Info() (info model.DocumentInfo) {
	info.PageCount = r.PageCount()

	defer func() {
		// Info is best effort; a broken dictionary leaves fields empty
		_ = recover()
	}()

	dict := r.pdf.Trailer().Key("Info")
	if dict.IsNull() {
		return info
	}
	info.Title = dict.Key("Title").Text()
	info.Author = dict.Key("Author").Text()
	info.Subject = dict.Key("Subject").Text()
	info.Creator = dict.Key("Creator").Text()
	info.Producer = dict.Key("Producer").Text()
	return info
}

// Outline returns the document bookmarks
func (r *Reader) Outline() (entries []model.OutlineEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			entries = nil
		}
	}()
	return convertOutline(r.pdf.Outline().Child)
}

func convertOutline(children []pdf.Outline) []model.OutlineEntry {
	if len(children) == 0 {
		return nil
	}
	entries := make([]model.OutlineEntry, 0, len(children))
	for _, c := range children {
		entries = append(entries, model.OutlineEntry{
			Title:    c.Title,
			Children: convertOutline(c.Child),
		})
	}
	return entries
}

// mediaBox returns the page size, walking up the page tree when the page
// does not carry its own MediaBox.
func mediaBox(v pdf.Value) (float64, float64) {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
			urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
			w, h := urx-llx, ury-lly
			if w < 0 {
				w = -w
			}
			if h < 0 {
				h = -h
			}
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}
