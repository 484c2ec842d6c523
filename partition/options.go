package partition

import (
	"github.com/tsawler/pdfextract/layout"
	"github.com/tsawler/pdfextract/ocr"
	"github.com/tsawler/pdfextract/tables"
)

// Options controls a partition run
type Options struct {
	Strategy Strategy

	// Pages to partition (1-indexed); empty means every page
	Pages []int

	ExtractImages bool
	ExtractTables bool

	// TableImages also saves a cropped render of every detected table
	TableImages bool

	// Languages are Tesseract language codes, also recorded on elements
	Languages []string

	// ImageDir receives exported images and table crops
	ImageDir string

	// OCRDPI is the render resolution for OCR and table crops
	OCRDPI int

	Tables tables.Config
	Layout layout.AnalyzerConfig
}

// DefaultOptions returns the options of a hi_res run that extracts images
// and tables from English documents
func DefaultOptions() Options {
	return Options{
		Strategy:      StrategyHiRes,
		ExtractImages: true,
		ExtractTables: true,
		Languages:     []string{"eng"},
		OCRDPI:        ocr.DefaultDPI,
		Tables:        tables.DefaultConfig(),
		Layout:        layout.DefaultAnalyzerConfig(),
	}
}
