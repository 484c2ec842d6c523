package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdfextract/layout"
	"github.com/tsawler/pdfextract/model"
)

// AlignmentDetector finds tables without ruling lines. A table is a run of
// consecutive lines that each split into the same number of columns at wide
// gaps, with the columns lining up from row to row.
type AlignmentDetector struct {
	// ColumnGapRatio is the horizontal gap, as a multiple of the font size,
	// that separates two cells on one line
	ColumnGapRatio float64

	// MaxRowSpacing is the largest baseline distance between table rows, as a
	// multiple of the line height
	MaxRowSpacing float64

	// ProseWords is the mean number of words per cell at which a column
	// reads as running text. A candidate whose columns all read as running
	// text is a multi-column page, not a table.
	ProseWords float64

	config Config
}

// NewAlignmentDetector creates an alignment detector with default settings
func NewAlignmentDetector() *AlignmentDetector {
	return &AlignmentDetector{
		ColumnGapRatio: 1.5,
		MaxRowSpacing:  2.5,
		ProseWords:     3.5,
		config:         DefaultConfig(),
	}
}

// Name returns the detector's identifier ("alignment")
func (d *AlignmentDetector) Name() string {
	return "alignment"
}

// Configure sets the detector configuration
func (d *AlignmentDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// alignedRow is one text line split into cells
type alignedRow struct {
	line  layout.Line
	cells [][]model.Fragment
}

func (r alignedRow) left(col int) float64 {
	return r.cells[col][0].X
}

func (r alignedRow) right(col int) float64 {
	cell := r.cells[col]
	return cell[len(cell)-1].Right()
}

// Detect finds borderless tables on the page
func (d *AlignmentDetector) Detect(page Page) []*model.Table {
	lines := layout.NewLineDetector().Detect(page.Fragments, page.Width)
	if len(lines) == 0 {
		return nil
	}

	rows := make([]alignedRow, len(lines))
	for i, l := range lines {
		rows[i] = alignedRow{line: l, cells: d.splitCells(l)}
	}

	minRows := max(d.config.MinAlignedRows, d.config.MinRows)
	var tables []*model.Table
	for start := 0; start < len(rows); {
		end := start + 1
		if len(rows[start].cells) >= max(2, d.config.MinCols) {
			for end < len(rows) && d.continuesTable(rows[start], rows[end-1], rows[end]) {
				end++
			}
		}
		if end-start >= minRows && len(rows[start].cells) >= 2 {
			if t := d.buildTable(rows[start:end]); validate(t, d.config) && !d.isProse(t) {
				tables = append(tables, t)
				start = end
				continue
			}
		}
		start++
	}
	return tables
}

// splitCells splits a line at gaps wider than ColumnGapRatio em
func (d *AlignmentDetector) splitCells(line layout.Line) [][]model.Fragment {
	var cells [][]model.Fragment
	var current []model.Fragment
	for i, f := range line.Fragments {
		if i > 0 {
			prev := line.Fragments[i-1]
			size := math.Max(f.FontSize, prev.FontSize)
			if size <= 0 {
				size = 10
			}
			if f.X-prev.Right() > size*d.ColumnGapRatio {
				cells = append(cells, current)
				current = nil
			}
		}
		current = append(current, f)
	}
	if len(current) > 0 {
		cells = append(cells, current)
	}
	return cells
}

// continuesTable reports whether next extends the table started by first
func (d *AlignmentDetector) continuesTable(first, prev, next alignedRow) bool {
	if len(next.cells) != len(first.cells) {
		return false
	}
	height := math.Max(prev.line.Height, next.line.Height)
	if prev.line.Baseline-next.line.Baseline > height*d.MaxRowSpacing {
		return false
	}

	tol := d.config.AlignmentTolerance
	if tol <= 0 {
		tol = 3
	}
	for col := range first.cells {
		leftAligned := math.Abs(first.left(col)-next.left(col)) <= tol
		rightAligned := math.Abs(first.right(col)-next.right(col)) <= tol
		firstCenter := (first.left(col) + first.right(col)) / 2
		nextCenter := (next.left(col) + next.right(col)) / 2
		centered := math.Abs(firstCenter-nextCenter) <= tol
		if !leftAligned && !rightAligned && !centered {
			return false
		}
	}
	return true
}

func (d *AlignmentDetector) buildTable(rows []alignedRow) *model.Table {
	cols := len(rows[0].cells)
	t := model.NewTable(len(rows), cols)

	for r, row := range rows {
		for c, cell := range row.cells {
			var box model.BBox
			for _, f := range cell {
				box = box.Union(f.BBox())
			}
			t.Rows[r][c] = model.Cell{
				Text:     cellText(cell),
				BBox:     box,
				IsHeader: r == 0,
			}
			t.BBox = t.BBox.Union(box)
		}
	}

	// Confidence grows with the number of rows and columns
	t.Confidence = math.Min(1, 0.4+0.05*float64(len(rows))+0.1*float64(cols))
	return t
}

// isProse reports whether every column of t averages at least ProseWords
// words per cell
func (d *AlignmentDetector) isProse(t *model.Table) bool {
	if d.ProseWords <= 0 || t.RowCount() == 0 {
		return false
	}
	for c := 0; c < t.ColCount(); c++ {
		words := 0
		for _, row := range t.Rows {
			words += len(strings.Fields(row[c].Text))
		}
		if float64(words)/float64(t.RowCount()) < d.ProseWords {
			return false
		}
	}
	return true
}

// cellText joins the fragments of a cell in reading order
func cellText(fragments []model.Fragment) string {
	if len(fragments) == 0 {
		return ""
	}
	sorted := make([]model.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		tol := math.Max(sorted[i].Height, sorted[j].Height) * 0.5
		if math.Abs(sorted[i].Y-sorted[j].Y) > tol {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	words := make([]string, 0, len(sorted))
	for _, f := range sorted {
		words = append(words, f.Text)
	}
	return strings.Join(words, " ")
}
