package layout

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/pdfextract/model"
)

// Region is a classified block
type Region struct {
	Block

	Category model.Category

	// Text is the block text; bullets are stripped from list items
	Text string

	// Depth is the heading depth, 0 for top-level titles. Only meaningful
	// when HasDepth is set.
	Depth    int
	HasDepth bool

	// Section is the heading number, e.g. "2.1", when the title is numbered
	Section string

	// Confidence of the heading decision for titles, 1 otherwise
	Confidence float64

	// List is set for list items
	List *ListMarker
}

// ClassifierConfig holds configuration for block classification
type ClassifierConfig struct {
	Heading HeadingConfig

	// MinNarrativeWords is the word count at which a block is narrative text
	// even without closing punctuation
	// Default: 5
	MinNarrativeWords int

	// FontSizeBucket is the granularity used to find the body font size
	// Default: 0.5 points
	FontSizeBucket float64
}

// DefaultClassifierConfig returns sensible default configuration
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Heading:           DefaultHeadingConfig(),
		MinNarrativeWords: 5,
		FontSizeBucket:    0.5,
	}
}

// Classifier assigns element categories to blocks
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultClassifierConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// BodyFontSize returns the most common line font size across the blocks,
// rounded to the configured bucket. Ties go to the smaller size.
func (c *Classifier) BodyFontSize(blocks []Block) float64 {
	bucket := c.config.FontSizeBucket
	if bucket <= 0 {
		bucket = 0.5
	}

	counts := make(map[int]int)
	for _, b := range blocks {
		for _, l := range b.Lines {
			if l.AverageFontSize > 0 {
				counts[int(math.Round(l.AverageFontSize/bucket))]++
			}
		}
	}
	if len(counts) == 0 {
		return 0
	}

	best, bestCount := 0, -1
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return float64(best) * bucket
}

// Classify labels one block. Header and footer detection happens separately.
func (c *Classifier) Classify(b Block, bodyFontSize float64) Region {
	text := strings.TrimSpace(b.Text())
	region := Region{Block: b, Text: text, Confidence: 1}

	heading := c.scoreHeading(&b, text, bodyFontSize)
	marker, isList := DetectListMarker(text)

	switch {
	// A numbered line only counts as a title when it also looks like one
	case heading.confidence+1e-9 >= c.config.Heading.MinConfidence && (!isList || c.stylisedHeading(&b, bodyFontSize)):
		region.Category = model.CategoryTitle
		region.Confidence = heading.confidence
		region.Section = heading.section
		if depth, ok := sectionDepth(heading.section); ok {
			region.Depth, region.HasDepth = min(depth, c.config.Heading.MaxDepth), true
		}
	case isList && marker.Text != "":
		region.Category = model.CategoryListItem
		region.List = &marker
		if marker.Type == ListTypeBullet {
			region.Text = marker.Text
		}
	case b.WordCount() >= c.config.MinNarrativeWords || endsSentence(text):
		region.Category = model.CategoryNarrativeText
	default:
		region.Category = model.CategoryUncategorized
	}
	return region
}

// stylisedHeading reports whether the block is set apart from body text by
// size or weight
func (c *Classifier) stylisedHeading(b *Block, bodyFontSize float64) bool {
	return b.Bold() || (bodyFontSize > 0 && b.AverageFontSize()/bodyFontSize >= 1.1)
}

// AssignDepths gives unnumbered titles a depth from the rank of their font
// size among all title sizes: the largest size is depth 0.
func (c *Classifier) AssignDepths(regions []*Region) {
	bucket := c.config.FontSizeBucket
	if bucket <= 0 {
		bucket = 0.5
	}

	seen := make(map[int]bool)
	var sizes []int
	for _, r := range regions {
		if r.Category != model.CategoryTitle || r.HasDepth {
			continue
		}
		k := int(math.Round(r.AverageFontSize() / bucket))
		if !seen[k] {
			seen[k] = true
			sizes = append(sizes, k)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	rank := make(map[int]int, len(sizes))
	for i, k := range sizes {
		rank[k] = min(i, c.config.Heading.MaxDepth)
	}
	for _, r := range regions {
		if r.Category != model.CategoryTitle || r.HasDepth {
			continue
		}
		r.Depth = rank[int(math.Round(r.AverageFontSize()/bucket))]
		r.HasDepth = true
	}
}

// endsSentence reports whether text ends with sentence punctuation, ignoring
// closing quotes and brackets
func endsSentence(text string) bool {
	text = strings.TrimRightFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`"'”’)]`, r)
	})
	if text == "" {
		return false
	}
	last := text[len(text)-1]
	return last == '.' || last == '!' || last == '?' || last == ':' || last == ';'
}
