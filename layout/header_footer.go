package layout

import (
	"math"
	"regexp"
	"strings"

	"github.com/tsawler/pdfextract/model"
)

// HeaderFooterConfig holds configuration for header/footer detection
type HeaderFooterConfig struct {
	// HeaderRegionHeight is the height from top of page to consider as header zone
	// Default: 72 points (1 inch)
	HeaderRegionHeight float64

	// FooterRegionHeight is the height from bottom of page to consider as footer zone
	// Default: 72 points (1 inch)
	FooterRegionHeight float64

	// MinOccurrenceRatio is the minimum fraction of pages a text must appear on
	// to be considered a header/footer (0.0 to 1.0)
	// Default: 0.5 (50% of pages)
	MinOccurrenceRatio float64

	// MinPages is the minimum number of pages required for header/footer detection
	// Default: 2
	MinPages int
}

// DefaultHeaderFooterConfig returns sensible default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		HeaderRegionHeight: 72.0,
		FooterRegionHeight: 72.0,
		MinOccurrenceRatio: 0.5,
		MinPages:           2,
	}
}

// HeaderFooterDetector detects headers and footers across pages
type HeaderFooterDetector struct {
	config HeaderFooterConfig
}

// NewHeaderFooterDetector creates a new detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return &HeaderFooterDetector{config: DefaultHeaderFooterConfig()}
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	return &HeaderFooterDetector{config: config}
}

type blockRef struct {
	page, block int
}

// HeaderFooterResult contains the detection results
type HeaderFooterResult struct {
	// Headers and Footers hold the normalized repeated texts
	Headers []string
	Footers []string

	marks map[blockRef]model.Category
}

// Category returns Header or Footer when block b of page p (indices into the
// slice passed to Detect) was detected as one.
func (r *HeaderFooterResult) Category(page, block int) (model.Category, bool) {
	if r == nil {
		return "", false
	}
	c, ok := r.marks[blockRef{page, block}]
	return c, ok
}

// Detect finds blocks whose text repeats in the top or bottom band of enough
// pages. Digits are ignored when comparing, so running page numbers match.
func (d *HeaderFooterDetector) Detect(pages []*PageLayout) *HeaderFooterResult {
	result := &HeaderFooterResult{marks: make(map[blockRef]model.Category)}
	if len(pages) < d.config.MinPages {
		return result
	}

	type occurrence struct {
		refs  []blockRef
		pages map[int]bool
	}
	groups := map[model.Category]map[string]*occurrence{
		model.CategoryHeader: {},
		model.CategoryFooter: {},
	}

	for pi, page := range pages {
		for bi := range page.Blocks {
			b := &page.Blocks[bi]
			category, ok := d.band(b, page.Height)
			if !ok {
				continue
			}
			key := normalizeForComparison(b.Text())
			if key == "" {
				continue
			}
			occ := groups[category][key]
			if occ == nil {
				occ = &occurrence{pages: make(map[int]bool)}
				groups[category][key] = occ
			}
			occ.refs = append(occ.refs, blockRef{pi, bi})
			occ.pages[pi] = true
		}
	}

	minPages := int(math.Ceil(float64(len(pages)) * d.config.MinOccurrenceRatio))
	if minPages < 2 {
		minPages = 2
	}

	for category, byText := range groups {
		for key, occ := range byText {
			if len(occ.pages) < minPages {
				continue
			}
			for _, ref := range occ.refs {
				result.marks[ref] = category
			}
			if category == model.CategoryHeader {
				result.Headers = append(result.Headers, key)
			} else {
				result.Footers = append(result.Footers, key)
			}
		}
	}
	return result
}

// band reports whether the block lies entirely within the header or footer zone
func (d *HeaderFooterDetector) band(b *Block, pageHeight float64) (model.Category, bool) {
	switch {
	case b.BBox.Bottom() >= pageHeight-d.config.HeaderRegionHeight:
		return model.CategoryHeader, true
	case b.BBox.Top() <= d.config.FooterRegionHeight:
		return model.CategoryFooter, true
	}
	return "", false
}

var (
	digitsPattern     = regexp.MustCompile(`\d+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// normalizeForComparison replaces digit runs with '#' and folds case and spacing
func normalizeForComparison(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = digitsPattern.ReplaceAllString(text, "#")
	return whitespacePattern.ReplaceAllString(text, " ")
}
