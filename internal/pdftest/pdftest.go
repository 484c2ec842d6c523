// Package pdftest builds small, well-formed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Page describes one page of a generated document
type Page struct {
	// Content is the raw content stream. Fonts /F1 (Helvetica) and /F2
	// (Helvetica-Bold) are available; every glyph is 500 units wide.
	Content string

	// Width and Height default to US Letter
	Width, Height float64

	Links  []Link
	Images []Image
}

// Link is a URI link annotation
type Link struct {
	Rect [4]float64
	URL  string
}

// Image is an uncompressed image XObject, named /Im1, /Im2, ...
type Image struct {
	Width, Height    int
	ColorSpace       string
	BitsPerComponent int
	Data             []byte
	// Filter, when set, is written as the stream filter without encoding Data
	Filter string
}

// Doc describes a generated document
type Doc struct {
	Pages   []Page
	Title   string
	Author  string
	Outline []string
}

// Text returns a content stream that shows s at (x, y) with font /F1 or /F2
func Text(font string, size, x, y float64, s string) string {
	s = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
	return fmt.Sprintf("BT /%s %g Tf %g %g Td (%s) Tj ET\n", font, size, x, y, s)
}

// Rect returns a content stream that strokes a rectangle
func Rect(x, y, w, h float64) string {
	return fmt.Sprintf("%g %g %g %g re S\n", x, y, w, h)
}

type builder struct {
	objects []string
}

func (b *builder) add(body string) int {
	b.objects = append(b.objects, body)
	return len(b.objects)
}

func (b *builder) set(num int, body string) {
	b.objects[num-1] = body
}

func stream(dict string, data []byte) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func widths() string {
	w := make([]string, 95)
	for i := range w {
		w[i] = "500"
	}
	return strings.Join(w, " ")
}

// Build renders the document to PDF bytes
func Build(doc Doc) []byte {
	b := &builder{}
	catalog := b.add("")
	pages := b.add("")
	font := func(base string) int {
		return b.add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", base, widths()))
	}
	regular := font("Helvetica")
	bold := font("Helvetica-Bold")

	var kids []string
	for _, p := range doc.Pages {
		w, h := p.Width, p.Height
		if w == 0 {
			w = 612
		}
		if h == 0 {
			h = 792
		}
		content := b.add(stream("", []byte(p.Content)))

		var xobjects []string
		for i, img := range p.Images {
			cs := img.ColorSpace
			if cs == "" {
				cs = "DeviceGray"
			}
			bpc := img.BitsPerComponent
			if bpc == 0 {
				bpc = 8
			}
			dict := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent %d", img.Width, img.Height, cs, bpc)
			if img.Filter != "" {
				dict += " /Filter /" + img.Filter
			}
			num := b.add(stream(dict, img.Data))
			xobjects = append(xobjects, fmt.Sprintf("/Im%d %d 0 R", i+1, num))
		}

		var annots []string
		for _, l := range p.Links {
			num := b.add(fmt.Sprintf("<< /Type /Annot /Subtype /Link /Rect [%g %g %g %g] /A << /S /URI /URI (%s) >> >>",
				l.Rect[0], l.Rect[1], l.Rect[2], l.Rect[3], l.URL))
			annots = append(annots, fmt.Sprintf("%d 0 R", num))
		}

		resources := fmt.Sprintf("/Font << /F1 %d 0 R /F2 %d 0 R >>", regular, bold)
		if len(xobjects) > 0 {
			resources += " /XObject << " + strings.Join(xobjects, " ") + " >>"
		}
		page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %g %g] /Resources << %s >> /Contents %d 0 R",
			pages, w, h, resources, content)
		if len(annots) > 0 {
			page += " /Annots [" + strings.Join(annots, " ") + "]"
		}
		page += " >>"
		kids = append(kids, fmt.Sprintf("%d 0 R", b.add(page)))
	}
	b.set(pages, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))

	root := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R", pages)
	if len(doc.Outline) > 0 {
		outlines := b.add("")
		var items []int
		for range doc.Outline {
			items = append(items, b.add(""))
		}
		for i, title := range doc.Outline {
			item := fmt.Sprintf("<< /Title (%s) /Parent %d 0 R", title, outlines)
			if i > 0 {
				item += fmt.Sprintf(" /Prev %d 0 R", items[i-1])
			}
			if i < len(items)-1 {
				item += fmt.Sprintf(" /Next %d 0 R", items[i+1])
			}
			b.set(items[i], item+" >>")
		}
		b.set(outlines, fmt.Sprintf("<< /Type /Outlines /First %d 0 R /Last %d 0 R /Count %d >>",
			items[0], items[len(items)-1], len(items)))
		root += fmt.Sprintf(" /Outlines %d 0 R", outlines)
	}
	b.set(catalog, root+" >>")

	info := 0
	if doc.Title != "" || doc.Author != "" {
		info = b.add(fmt.Sprintf("<< /Title (%s) /Author (%s) >>", doc.Title, doc.Author))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(b.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	trailer := fmt.Sprintf("/Size %d /Root %d 0 R", len(b.objects)+1, catalog)
	if info != 0 {
		trailer += fmt.Sprintf(" /Info %d 0 R", info)
	}
	fmt.Fprintf(&buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

// WriteFile builds doc into dir/name and returns the path
func WriteFile(t testing.TB, dir, name string, doc Doc) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(doc), 0o644); err != nil {
		t.Fatalf("writing test PDF: %v", err)
	}
	return path
}
