package reader

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfextract/model"
)

// Link is a URI link annotation on a page
type Link struct {
	URL  string
	BBox model.BBox
}

// Links returns the URI link annotations of page n (1-based)
func (r *Reader) Links(n int) (links []Link, err error) {
	if n < 1 || n > r.PageCount() {
		return nil, fmt.Errorf("page %d: %w", n, ErrPageOutOfRange)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: malformed annotations: %v", n, rec)
		}
	}()

	annots := r.pdf.Page(n).V.Key("Annots")
	if annots.Kind() != pdf.Array {
		return nil, nil
	}

	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.Key("Subtype").Name() != "Link" {
			continue
		}
		action := annot.Key("A")
		if action.Key("S").Name() != "URI" {
			continue
		}
		uri := action.Key("URI").RawString()
		if uri == "" {
			continue
		}
		rect := annot.Key("Rect")
		if rect.Kind() != pdf.Array || rect.Len() != 4 {
			continue
		}
		box := model.NewBBoxFromPoints(
			model.Point{X: rect.Index(0).Float64(), Y: rect.Index(1).Float64()},
			model.Point{X: rect.Index(2).Float64(), Y: rect.Index(3).Float64()},
		)
		links = append(links, Link{URL: uri, BBox: box})
	}
	return links, nil
}
