package tables

import (
	"sort"

	"github.com/tsawler/pdfextract/model"
)

// Page is the input to table detection
type Page struct {
	Width     float64
	Height    float64
	Fragments []model.Fragment
	Rules     []model.Rule
}

// Detector is the interface for table detection algorithms
type Detector interface {
	// Detect finds tables in a page
	Detect(page Page) []*model.Table

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// Minimum confidence threshold (0-1)
	MinConfidence float64

	// Whether to use ruling-line detection
	UseLines bool

	// Whether to use whitespace alignment detection
	UseWhitespace bool

	// Tolerance for row/column alignment (points)
	AlignmentTolerance float64

	// MinAlignedRows is the number of consecutive aligned lines a borderless
	// table needs
	MinAlignedRows int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.5,
		UseLines:           true,
		UseWhitespace:      true,
		AlignmentTolerance: 3.0,
		MinAlignedRows:     3,
	}
}

// Detectors returns fresh detectors for the methods config enables, in the
// order Extract runs them
func Detectors(config Config) []Detector {
	var detectors []Detector
	if config.UseLines {
		detectors = append(detectors, NewGridDetector())
	}
	if config.UseWhitespace {
		detectors = append(detectors, NewAlignmentDetector())
	}
	return detectors
}

// Extract runs grid detection, then alignment detection on whatever text the
// grids did not consume. It returns the tables sorted top to bottom and the
// fragments left over for the text pipeline.
func Extract(page Page, config Config) ([]*model.Table, []model.Fragment) {
	var found []*model.Table
	remaining := page.Fragments

	for _, d := range Detectors(config) {
		if err := d.Configure(config); err != nil {
			continue
		}
		current := page
		current.Fragments = remaining
		tables := d.Detect(current)
		if len(tables) == 0 {
			continue
		}
		found = append(found, tables...)
		remaining = excludeConsumed(remaining, tables)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].BBox.Top() > found[j].BBox.Top()
	})
	return found, remaining
}

// excludeConsumed drops fragments whose center lies inside any table
func excludeConsumed(fragments []model.Fragment, tables []*model.Table) []model.Fragment {
	var out []model.Fragment
	for _, f := range fragments {
		center := f.BBox().Center()
		inside := false
		for _, t := range tables {
			if t.BBox.Expand(1).Contains(center) {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, f)
		}
	}
	return out
}

func validate(t *model.Table, config Config) bool {
	return t != nil &&
		t.RowCount() >= config.MinRows &&
		t.ColCount() >= config.MinCols &&
		t.Confidence >= config.MinConfidence &&
		!t.IsEmpty()
}
