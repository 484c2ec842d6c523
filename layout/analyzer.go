package layout

import (
	"github.com/tsawler/pdfextract/model"
)

// PageLayout holds the layout of one page
type PageLayout struct {
	// Number is the 1-based page number
	Number int

	Width  float64
	Height float64

	// Gutters separate text columns; empty for single-column pages
	Gutters []Gutter

	// Blocks are in reading order: column by column, top to bottom
	Blocks []Block

	// Regions are set by Analyzer.Classify, one per block
	Regions []Region
}

// AnalyzerConfig holds configuration for the full layout analysis
type AnalyzerConfig struct {
	Line         LineConfig
	Block        BlockConfig
	Column       ColumnConfig
	HeaderFooter HeaderFooterConfig
	Classifier   ClassifierConfig

	// DetectHeaderFooter enables cross-page header/footer detection
	DetectHeaderFooter bool
}

// DefaultAnalyzerConfig returns sensible default configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Line:               DefaultLineConfig(),
		Block:              DefaultBlockConfig(),
		Column:             DefaultColumnConfig(),
		HeaderFooter:       DefaultHeaderFooterConfig(),
		Classifier:         DefaultClassifierConfig(),
		DetectHeaderFooter: true,
	}
}

// Analyzer orchestrates layout analysis
type Analyzer struct {
	config       AnalyzerConfig
	columns      *ColumnDetector
	lines        *LineDetector
	blocks       *BlockDetector
	headerFooter *HeaderFooterDetector
	classifier   *Classifier
}

// NewAnalyzer creates a new analyzer with default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{
		config:       config,
		columns:      NewColumnDetectorWithConfig(config.Column),
		lines:        NewLineDetectorWithConfig(config.Line),
		blocks:       NewBlockDetectorWithConfig(config.Block),
		headerFooter: NewHeaderFooterDetectorWithConfig(config.HeaderFooter),
		classifier:   NewClassifierWithConfig(config.Classifier),
	}
}

// Layout groups the fragments of one page into blocks
func (a *Analyzer) Layout(number int, fragments []model.Fragment, width, height float64) *PageLayout {
	page := &PageLayout{Number: number, Width: width, Height: height}
	if len(fragments) == 0 {
		return page
	}

	page.Gutters = a.columns.Detect(fragments)
	for col, colFragments := range SplitColumns(fragments, page.Gutters) {
		lines := a.lines.Detect(colFragments, width)
		for _, b := range a.blocks.Detect(lines) {
			b.Column = col
			page.Blocks = append(page.Blocks, b)
		}
	}
	return page
}

// Classify labels every block of every page. Pages must be the whole
// document (or the selected page range) so repeated headers and footers
// and relative heading sizes can be found.
func (a *Analyzer) Classify(pages []*PageLayout) {
	var all []Block
	for _, p := range pages {
		all = append(all, p.Blocks...)
	}

	var bands *HeaderFooterResult
	if a.config.DetectHeaderFooter {
		bands = a.headerFooter.Detect(pages)
	}

	// Body size is measured without the repeated bands
	var body []Block
	for pi, p := range pages {
		for bi, b := range p.Blocks {
			if _, ok := bands.Category(pi, bi); !ok {
				body = append(body, b)
			}
		}
	}
	if len(body) == 0 {
		body = all
	}
	bodySize := a.classifier.BodyFontSize(body)

	var titles []*Region
	for pi, p := range pages {
		p.Regions = make([]Region, len(p.Blocks))
		for bi, b := range p.Blocks {
			if category, ok := bands.Category(pi, bi); ok {
				p.Regions[bi] = Region{Block: b, Category: category, Text: b.Text(), Confidence: 1}
				continue
			}
			p.Regions[bi] = a.classifier.Classify(b, bodySize)
			if p.Regions[bi].Category == model.CategoryTitle {
				titles = append(titles, &p.Regions[bi])
			}
		}
	}
	a.classifier.AssignDepths(titles)
}
