package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdfextract/model"
)

// LineAlignment represents the horizontal alignment of a line
type LineAlignment int

const (
	AlignUnknown LineAlignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns a string representation of the alignment
func (a LineAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// Line represents a single line of text
type Line struct {
	// BBox is the bounding box of the line
	BBox model.BBox

	// Fragments are the words of the line, sorted left to right
	Fragments []model.Fragment

	// Text is the assembled text content of the line
	Text string

	// Baseline is the lowest fragment baseline
	Baseline float64

	// Height is the largest fragment height
	Height float64

	AverageFontSize float64
	Bold            bool
	Italic          bool

	Alignment LineAlignment
}

// LineConfig holds configuration for line detection
type LineConfig struct {
	// BaselineTolerance is the baseline distance, as a fraction of the median
	// font size, within which fragments share a line (default: 0.5)
	BaselineTolerance float64

	// AlignmentTolerance is the tolerance for alignment detection (default: 10 points)
	AlignmentTolerance float64
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		BaselineTolerance:  0.5,
		AlignmentTolerance: 10.0,
	}
}

// LineDetector groups fragments into text lines
type LineDetector struct {
	config LineConfig
}

// NewLineDetector creates a new line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{config: DefaultLineConfig()}
}

// NewLineDetectorWithConfig creates a line detector with custom configuration
func NewLineDetectorWithConfig(config LineConfig) *LineDetector {
	return &LineDetector{config: config}
}

// Detect groups fragments into lines, sorted top to bottom
func (d *LineDetector) Detect(fragments []model.Fragment, pageWidth float64) []Line {
	if len(fragments) == 0 {
		return nil
	}

	tolerance := medianFontSize(fragments) * d.config.BaselineTolerance

	sorted := make([]model.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var groups [][]model.Fragment
	var current []model.Fragment
	var sumY float64
	for _, f := range sorted {
		if len(current) > 0 && math.Abs(f.Y-sumY/float64(len(current))) > tolerance {
			groups = append(groups, current)
			current, sumY = nil, 0
		}
		current = append(current, f)
		sumY += f.Y
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].X < g[j].X })
		lines = append(lines, buildLine(g))
	}

	d.detectAlignment(lines, pageWidth)
	return lines
}

func buildLine(fragments []model.Fragment) Line {
	line := Line{
		Fragments: fragments,
		Baseline:  fragments[0].Y,
	}

	var sumSize float64
	var bold, italic int
	for _, f := range fragments {
		line.BBox = line.BBox.Union(f.BBox())
		line.Baseline = math.Min(line.Baseline, f.Y)
		line.Height = math.Max(line.Height, f.Height)
		sumSize += f.FontSize
		if f.IsBold() {
			bold++
		}
		if f.IsItalic() {
			italic++
		}
	}
	n := len(fragments)
	line.AverageFontSize = sumSize / float64(n)
	line.Bold = bold*2 > n
	line.Italic = italic*2 > n
	line.Text = assembleText(fragments)
	return line
}

// assembleText joins fragments, inserting a space wherever there is a gap
func assembleText(fragments []model.Fragment) string {
	var sb strings.Builder
	for i, f := range fragments {
		if i > 0 {
			prev := fragments[i-1]
			if f.X-prev.Right() > f.Height*0.1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// detectAlignment detects horizontal alignment relative to the text margins
func (d *LineDetector) detectAlignment(lines []Line, pageWidth float64) {
	if len(lines) == 0 {
		return
	}

	left, right := lines[0].BBox.Left(), lines[0].BBox.Right()
	for _, l := range lines[1:] {
		left = math.Min(left, l.BBox.Left())
		right = math.Max(right, l.BBox.Right())
	}
	if len(lines) == 1 && pageWidth > 0 {
		left, right = 0, pageWidth
	}
	center := (left + right) / 2
	tol := d.config.AlignmentTolerance

	for i := range lines {
		box := lines[i].BBox
		atLeft := math.Abs(box.Left()-left) <= tol
		atRight := math.Abs(box.Right()-right) <= tol
		centered := math.Abs(box.Center().X-center) <= tol

		switch {
		case atLeft && atRight:
			lines[i].Alignment = AlignLeft
		case centered:
			lines[i].Alignment = AlignCenter
		case atRight:
			lines[i].Alignment = AlignRight
		case atLeft:
			lines[i].Alignment = AlignLeft
		}
	}
}

// WordCount returns the number of whitespace-separated words
func (l *Line) WordCount() int {
	return len(strings.Fields(l.Text))
}

func medianFontSize(fragments []model.Fragment) float64 {
	sizes := make([]float64, 0, len(fragments))
	for _, f := range fragments {
		if f.FontSize > 0 {
			sizes = append(sizes, f.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 12.0
	}
	return median(sizes)
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
