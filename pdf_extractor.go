package pdfextract

import (
	"context"
	"log/slog"

	"github.com/tsawler/pdfextract/model"
)

// DefaultOutputDir is used when NewPDFExtractor gets an empty directory
const DefaultOutputDir = "extracted_content"

// PDFExtractor writes extracted content for any number of PDFs under one
// output directory.
type PDFExtractor struct {
	OutputBaseDir string

	// Configure, when set, adjusts each Extractor before it runs
	Configure func(*Extractor) *Extractor

	Logger *slog.Logger
}

// NewPDFExtractor returns a PDFExtractor writing under outputBaseDir
func NewPDFExtractor(outputBaseDir string) *PDFExtractor {
	if outputBaseDir == "" {
		outputBaseDir = DefaultOutputDir
	}
	return &PDFExtractor{OutputBaseDir: outputBaseDir}
}

// ExtractContent extracts pdfPath into <OutputBaseDir>/<stem> and returns
// the element counts. Warnings are logged.
func (p *PDFExtractor) ExtractContent(ctx context.Context, pdfPath, strategy string, extractImages, extractTables bool) (model.Statistics, error) {
	ext := Open(pdfPath).
		Strategy(strategy).
		ExtractImages(extractImages).
		ExtractTables(extractTables)
	if p.Logger != nil {
		ext = ext.WithLogger(p.Logger)
	}
	if p.Configure != nil {
		ext = p.Configure(ext)
	}

	res, warnings, err := ext.SaveTo(ctx, p.OutputBaseDir)
	if err != nil {
		return model.Statistics{}, err
	}
	for _, w := range warnings {
		ext.log().Warn("pdfextract: "+w.Message, "file", pdfPath, "page", w.Page)
	}
	return res.Statistics, nil
}
