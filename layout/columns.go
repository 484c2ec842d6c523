package layout

import (
	"sort"

	"github.com/tsawler/pdfextract/model"
)

// Gutter is a vertical strip of whitespace separating two text columns
type Gutter struct {
	Left  float64
	Right float64
}

// Center returns the X coordinate of the middle of the gutter
func (g Gutter) Center() float64 {
	return (g.Left + g.Right) / 2
}

// ColumnConfig holds configuration for column detection
type ColumnConfig struct {
	// MinGapWidth is the minimum whitespace gap to consider as column separator
	// Default: 20 points
	MinGapWidth float64

	// MinColumnHeightRatio is the fraction of the text height each side of a
	// gutter must cover for the gutter to count
	// Default: 0.5
	MinColumnHeightRatio float64

	// MaxColumns is the maximum number of columns to detect
	// Default: 4
	MaxColumns int
}

// DefaultColumnConfig returns sensible default configuration
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		MinGapWidth:          20.0,
		MinColumnHeightRatio: 0.5,
		MaxColumns:           4,
	}
}

// ColumnDetector detects multi-column layouts
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a new column detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{config: DefaultColumnConfig()}
}

// NewColumnDetectorWithConfig creates a column detector with custom configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{config: config}
}

type slab struct {
	left, right float64
}

// Detect returns the gutters between text columns, left to right. A page
// with a single column has no gutters.
func (d *ColumnDetector) Detect(fragments []model.Fragment) []Gutter {
	if len(fragments) < 2 {
		return nil
	}

	slabs := make([]slab, 0, len(fragments))
	for _, f := range fragments {
		slabs = append(slabs, slab{left: f.X, right: f.Right()})
	}
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].left < slabs[j].left })
	merged := mergeSlabs(slabs)

	var gutters []Gutter
	for i := 0; i < len(merged)-1; i++ {
		g := Gutter{Left: merged[i].right, Right: merged[i+1].left}
		if g.Right-g.Left < d.config.MinGapWidth {
			continue
		}
		gutters = append(gutters, g)
	}
	if len(gutters) == 0 {
		return nil
	}
	if len(gutters) >= d.config.MaxColumns {
		return nil // more likely a table than running text
	}

	// Every column must carry a substantial share of the text height
	top, bottom := fragments[0].BBox().Top(), fragments[0].Y
	for _, f := range fragments {
		top = max(top, f.BBox().Top())
		bottom = min(bottom, f.Y)
	}
	height := top - bottom
	for _, col := range SplitColumns(fragments, gutters) {
		if len(col) == 0 {
			return nil
		}
		colTop, colBottom := col[0].BBox().Top(), col[0].Y
		for _, f := range col {
			colTop = max(colTop, f.BBox().Top())
			colBottom = min(colBottom, f.Y)
		}
		if height > 0 && (colTop-colBottom)/height < d.config.MinColumnHeightRatio {
			return nil
		}
	}
	return gutters
}

// mergeSlabs merges overlapping horizontal slabs
func mergeSlabs(slabs []slab) []slab {
	if len(slabs) == 0 {
		return nil
	}
	merged := []slab{slabs[0]}
	for _, s := range slabs[1:] {
		last := &merged[len(merged)-1]
		if s.left <= last.right+5.0 {
			last.right = max(last.right, s.right)
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// SplitColumns assigns each fragment to the column containing its center
func SplitColumns(fragments []model.Fragment, gutters []Gutter) [][]model.Fragment {
	columns := make([][]model.Fragment, len(gutters)+1)
	for _, f := range fragments {
		center := f.X + f.Width/2
		idx := sort.Search(len(gutters), func(i int) bool { return gutters[i].Center() > center })
		columns[idx] = append(columns[idx], f)
	}
	return columns
}
