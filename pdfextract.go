// Package pdfextract partitions PDF files into typed elements (titles,
// narrative text, list items, tables, images) and writes them to a
// per-document directory tree with a JSON metadata document.
//
// Basic usage:
//
//	res, warnings, err := pdfextract.Open("document.pdf").SaveTo(ctx, "extracted_content")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfextract.FormatWarnings(warnings))
//	}
//	fmt.Println(res.Statistics.Titles, "titles written to", res.BaseDir)
//
// With options:
//
//	elements, _, err := pdfextract.Open("scan.pdf").
//	    Pages(1, 2).
//	    Strategy("ocr_only").
//	    Languages("eng", "deu").
//	    Elements(ctx)
//
// For advanced use cases, the lower-level reader, layout, tables and
// partition packages are also available.
package pdfextract

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdfextract/partition"
)

// Open returns an Extractor for the PDF at filename. The file is opened by
// the terminal operation and closed before it returns.
//
// Example:
//
//	elements, warnings, err := pdfextract.Open("document.pdf").Elements(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Warning is a non-fatal problem: extraction succeeded but part of the
// document may be missing from the results.
type Warning = partition.Warning

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	stats := pdfextract.Must(pdfextract.NewPDFExtractor("out").ExtractContent(ctx, "doc.pdf", "fast", false, false))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustElements is a helper that wraps a call to Elements() or SaveTo() and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	elements := pdfextract.MustElements(pdfextract.Open("document.pdf").Elements(ctx))
func MustElements[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(fmt.Errorf("pdfextract: %w", err))
	}
	return val
}
