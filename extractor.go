package pdfextract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/pdfextract/format"
	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/model"
	"github.com/tsawler/pdfextract/partition"
	"github.com/tsawler/pdfextract/reader"
)

// Extractor provides a fluent interface for extracting content from PDFs.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	filename string
	options  extractOptions
	logger   *slog.Logger

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		options:  e.options.clone(),
		logger:   e.logger,
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	elements, _, err := pdfextract.Open("doc.pdf").Pages(1, 3, 5).Elements(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	n := e.clone()
	n.options.pages = append(n.options.pages, pages...)
	return n
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	n := e.clone()
	if start > end {
		n.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return n
	}
	for p := start; p <= end; p++ {
		n.options.pages = append(n.options.pages, p)
	}
	return n
}

// Strategy selects auto, fast, hi_res (the default) or ocr_only. An unknown
// name makes the terminal operation fail with partition.ErrUnknownStrategy.
func (e *Extractor) Strategy(strategy string) *Extractor {
	n := e.clone()
	s, err := partition.ParseStrategy(strategy)
	if err != nil {
		n.err = err
		return n
	}
	n.options.strategy = string(s)
	return n
}

// ExtractImages turns embedded image export on or off (default on)
func (e *Extractor) ExtractImages(enabled bool) *Extractor {
	n := e.clone()
	n.options.extractImages = enabled
	return n
}

// ExtractTables turns table detection on or off (default on)
func (e *Extractor) ExtractTables(enabled bool) *Extractor {
	n := e.clone()
	n.options.extractTables = enabled
	return n
}

// Languages sets the OCR languages, as Tesseract codes (default "eng")
func (e *Extractor) Languages(langs ...string) *Extractor {
	n := e.clone()
	if len(langs) == 0 {
		n.err = errors.New("at least one language is required")
		return n
	}
	n.options.languages = append([]string(nil), langs...)
	return n
}

// OCRDPI sets the resolution pages are rendered at for OCR
func (e *Extractor) OCRDPI(dpi int) *Extractor {
	n := e.clone()
	if dpi < 72 || dpi > 600 {
		n.err = fmt.Errorf("OCR DPI %d outside 72-600", dpi)
		return n
	}
	n.options.ocrDPI = dpi
	return n
}

// ExportXLSX makes SaveTo also write every table as an XLSX workbook
func (e *Extractor) ExportXLSX(enabled bool) *Extractor {
	n := e.clone()
	n.options.exportXLSX = enabled
	return n
}

// ImageDir sets where Elements writes exported images. SaveTo always uses
// the images directory of its output tree.
func (e *Extractor) ImageDir(dir string) *Extractor {
	n := e.clone()
	n.options.imageDir = dir
	return n
}

// WithLogger sets the logger for progress and warnings
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	n := e.clone()
	n.logger = logger
	return n
}

func (e *Extractor) withRunner(runner command.Runner) *Extractor {
	n := e.clone()
	n.options.runner = runner
	return n
}

func (e *Extractor) log() *slog.Logger {
	if e.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.logger
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Elements partitions the configured pages and returns the elements in
// document order. Images are only exported when ImageDir was set.
//
// Example:
//
//	elements, warnings, err := pdfextract.Open("document.pdf").Elements(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfextract.FormatWarnings(warnings))
//	}
func (e *Extractor) Elements(ctx context.Context) ([]model.Element, []Warning, error) {
	res, err := e.partition(ctx, e.options.imageDir)
	if err != nil {
		return nil, nil, err
	}
	return res.Elements, res.Warnings, nil
}

// partition opens the file, runs the partitioner and closes the file
func (e *Extractor) partition(ctx context.Context, imageDir string) (*partition.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.filename == "" {
		return nil, errors.New("no filename specified")
	}

	if err := format.RequirePDF(e.filename); err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	r, err := reader.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer r.Close()

	opts := e.options.partitionOptions(imageDir)
	p := partition.New(r, e.filename, opts).
		WithRunner(e.options.runner).
		WithLogger(e.log())

	var engineWarning *Warning
	if opts.Strategy != partition.StrategyFast {
		engine, err := e.options.newEngine()
		switch {
		case err != nil:
			e.log().Debug("pdfextract: OCR engine unavailable", "error", err)
		default:
			defer engine.Close()
			if err := engine.SetLanguage(e.options.languages...); err != nil {
				engineWarning = &Warning{Message: fmt.Sprintf("setting OCR languages: %v", err)}
			}
			p = p.WithEngine(engine)
		}
	}

	e.log().Info("pdfextract: partitioning", "file", e.filename, "strategy", opts.Strategy)
	res, err := p.Partition(ctx)
	if err != nil {
		return nil, err
	}
	if engineWarning != nil {
		res.Warnings = append([]Warning{*engineWarning}, res.Warnings...)
	}
	e.log().Info("pdfextract: partitioned",
		"file", e.filename, "strategy", res.Strategy, "elements", len(res.Elements), "warnings", len(res.Warnings))
	return res, nil
}
