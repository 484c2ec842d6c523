// Package format identifies document files by their content so that
// non-PDF input is rejected with a useful message before parsing.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotPDF is returned by RequirePDF for any other kind of file
var ErrNotPDF = errors.New("not a PDF file")

// Format is a document format recognised by its content
type Format int

const (
	Unknown Format = iota
	PDF
	DOCX
	XLSX
	PPTX
	ODT
	HTML
)

func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case ODT:
		return "ODT"
	case HTML:
		return "HTML"
	default:
		return "unknown"
	}
}

// headerWindow is how far into a file the %PDF- header may start; readers
// tolerate leading garbage before it
const headerWindow = 1024

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Detect inspects the content of r
func Detect(r io.ReaderAt, size int64) (Format, error) {
	head := make([]byte, headerWindow)
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	head = head[:n]

	switch {
	case bytes.Contains(head, pdfMagic):
		return PDF, nil
	case bytes.HasPrefix(head, zipMagic):
		return detectZIP(r, size)
	case looksLikeHTML(head):
		return HTML, nil
	}
	return Unknown, nil
}

// DetectFile opens path and inspects its content
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return Detect(f, info.Size())
}

// RequirePDF returns nil when path is a PDF and an error wrapping ErrNotPDF
// naming the detected format otherwise
func RequirePDF(path string) error {
	f, err := DetectFile(path)
	if err != nil {
		return err
	}
	switch f {
	case PDF:
		return nil
	case Unknown:
		return fmt.Errorf("%s: %w", path, ErrNotPDF)
	default:
		return fmt.Errorf("%s is a %s document: %w", path, f, ErrNotPDF)
	}
}

func looksLikeHTML(head []byte) bool {
	s := strings.ToLower(strings.TrimSpace(string(head)))
	return strings.HasPrefix(s, "<!doctype html") || strings.HasPrefix(s, "<html") ||
		(strings.HasPrefix(s, "<?xml") && strings.Contains(s, "<html"))
}

// detectZIP tells the office formats apart by their entries
func detectZIP(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, nil
	}
	for _, f := range zr.File {
		switch {
		case f.Name == "mimetype":
			if mime, err := readSmall(f); err == nil && strings.Contains(mime, "opendocument.text") {
				return ODT, nil
			}
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}
	return Unknown, nil
}

func readSmall(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, 256))
	return string(data), err
}
