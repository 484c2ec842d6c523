package pdfextract

import (
	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/ocr"
	"github.com/tsawler/pdfextract/partition"
)

// extractOptions holds configuration for an extraction run.
type extractOptions struct {
	// Page selection (1-indexed); nil means all pages
	pages []int

	strategy      string
	extractImages bool
	extractTables bool
	languages     []string
	ocrDPI        int

	// exportXLSX also writes every table as a workbook
	exportXLSX bool

	// imageDir receives images when Elements is used without SaveTo
	imageDir string

	// Test seams
	runner    command.Runner
	newEngine func() (ocr.Engine, error)
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		strategy:      string(partition.StrategyHiRes),
		extractImages: true,
		extractTables: true,
		languages:     []string{"eng"},
		ocrDPI:        ocr.DefaultDPI,
		runner:        command.Exec{},
		newEngine:     newOCREngine,
	}
}

// clone creates a deep copy of extractOptions.
func (o extractOptions) clone() extractOptions {
	n := o
	if o.pages != nil {
		n.pages = append([]int(nil), o.pages...)
	}
	if o.languages != nil {
		n.languages = append([]string(nil), o.languages...)
	}
	return n
}

// partitionOptions converts the options for the partition package
func (o extractOptions) partitionOptions(imageDir string) partition.Options {
	opts := partition.DefaultOptions()
	opts.Strategy = partition.Strategy(o.strategy)
	opts.Pages = o.pages
	opts.ExtractImages = o.extractImages && imageDir != ""
	opts.ExtractTables = o.extractTables
	opts.TableImages = o.extractTables && imageDir != ""
	opts.Languages = o.languages
	opts.ImageDir = imageDir
	opts.OCRDPI = o.ocrDPI
	return opts
}

func newOCREngine() (ocr.Engine, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	return client, nil
}
