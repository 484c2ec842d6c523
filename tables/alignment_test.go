package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfextract/layout"
	"github.com/tsawler/pdfextract/model"
)

// priceList is a borderless 4x3 table framed by two prose lines
func priceList(top float64) []model.Fragment {
	rows := [][]string{
		{"Product", "Price", "Qty"},
		{"Widget", "9.99", "4"},
		{"Gadget", "19.50", "12"},
		{"Gizmo", "5.00", "1"},
	}
	var out []model.Fragment
	for i, row := range rows {
		y := top - float64(i)*14
		out = append(out, frag(row[0], 72, y, 10), frag(row[1], 200, y, 10), frag(row[2], 300, y, 10))
	}
	return out
}

// twoColumnProse lays five lines of running text in columns at x=72 and
// x=320
func twoColumnProse(top float64) []model.Fragment {
	left := []string{
		"The first column starts with",
		"a paragraph that wraps onto",
		"several lines of running text",
		"and keeps a ragged right edge",
		"until the paragraph is done.",
	}
	right := []string{
		"The second column holds",
		"another paragraph that the",
		"reader should see as prose",
		"rather than as table cells",
		"split at the page gutter.",
	}
	var out []model.Fragment
	for i := range left {
		y := top - float64(i)*14
		out = append(out, frag(left[i], 72, y, 10), frag(right[i], 320, y, 10))
	}
	return out
}

func TestAlignmentDetectorName(t *testing.T) {
	assert.Equal(t, "alignment", NewAlignmentDetector().Name())
}

func TestAlignmentDetectorFindsTable(t *testing.T) {
	fragments := []model.Fragment{frag("The results are listed below.", 72, 730, 10)}
	fragments = append(fragments, priceList(700)...)
	fragments = append(fragments, frag("Totals exclude tax.", 72, 620, 10))

	found := NewAlignmentDetector().Detect(Page{Width: 612, Height: 792, Fragments: fragments})
	require.Len(t, found, 1)

	table := found[0]
	assert.False(t, table.HasGrid)
	require.Equal(t, 4, table.RowCount())
	require.Equal(t, 3, table.ColCount())
	assert.Equal(t, "Product", table.Rows[0][0].Text)
	assert.True(t, table.Rows[0][0].IsHeader)
	assert.Equal(t, "Widget", table.Rows[1][0].Text)
	assert.False(t, table.Rows[1][0].IsHeader)
	assert.Equal(t, "1", table.Rows[3][2].Text)
	assert.InDelta(t, 0.9, table.Confidence, 0.001)
	assert.InDelta(t, 72, table.BBox.Left(), 0.001)
	assert.InDelta(t, 710, table.BBox.Top(), 0.001)
	assert.InDelta(t, 658, table.BBox.Bottom(), 0.001)
}

func TestAlignmentDetectorRejects(t *testing.T) {
	tests := []struct {
		name      string
		fragments []model.Fragment
	}{
		{
			name: "too few rows",
			fragments: []model.Fragment{
				frag("Name", 72, 700, 10), frag("Age", 200, 700, 10),
				frag("Alice", 72, 686, 10), frag("30", 200, 686, 10),
			},
		},
		{
			name: "columns do not line up",
			fragments: []model.Fragment{
				frag("aa", 72, 700, 10), frag("bb", 200, 700, 10),
				frag("aa", 72, 686, 10), frag("bb", 260, 686, 10),
				frag("aa", 72, 672, 10), frag("bb", 330, 672, 10),
			},
		},
		{
			name: "single column prose",
			fragments: []model.Fragment{
				frag("First line of text", 72, 700, 10),
				frag("Second line of text", 72, 686, 10),
				frag("Third line of text", 72, 672, 10),
			},
		},
		{
			name: "rows too far apart",
			fragments: []model.Fragment{
				frag("a", 72, 700, 10), frag("b", 200, 700, 10),
				frag("c", 72, 600, 10), frag("d", 200, 600, 10),
				frag("e", 72, 500, 10), frag("f", 200, 500, 10),
			},
		},
		{
			name:      "two columns of prose",
			fragments: twoColumnProse(700),
		},
		{
			name: "empty page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := NewAlignmentDetector().Detect(Page{Width: 612, Height: 792, Fragments: tt.fragments})
			assert.Empty(t, found)
		})
	}
}

func TestAlignmentDetectorKeepsDescriptionColumn(t *testing.T) {
	rows := [][]string{
		{"Code", "Description"},
		{"E01", "The input file could not be opened"},
		{"E02", "The document has no pages at all"},
		{"E03", "The requested page is out of range"},
	}
	var fragments []model.Fragment
	for i, row := range rows {
		y := 700 - float64(i)*14
		fragments = append(fragments, frag(row[0], 72, y, 10), frag(row[1], 150, y, 10))
	}

	found := NewAlignmentDetector().Detect(Page{Width: 612, Height: 792, Fragments: fragments})
	require.Len(t, found, 1, "a short code column keeps the table")
	assert.Equal(t, "E02", found[0].Rows[2][0].Text)
}

func TestAlignmentDetectorProseWordsDisabled(t *testing.T) {
	d := NewAlignmentDetector()
	d.ProseWords = 0

	found := d.Detect(Page{Width: 612, Height: 792, Fragments: twoColumnProse(700)})
	require.Len(t, found, 1)
	assert.Equal(t, 5, found[0].RowCount())
	assert.Equal(t, "The second column holds", found[0].Rows[0][1].Text)
}

func TestSplitCells(t *testing.T) {
	fragments := []model.Fragment{
		frag("Net", 72, 700, 10), frag("income", 92, 700, 10), frag("42", 200, 700, 10),
	}
	lines := layout.NewLineDetector().Detect(fragments, 612)
	require.Len(t, lines, 1)

	cells := NewAlignmentDetector().splitCells(lines[0])
	require.Len(t, cells, 2)
	assert.Len(t, cells[0], 2, "a word gap stays inside the cell")
	assert.Equal(t, "42", cells[1][0].Text)
}

func TestCellText(t *testing.T) {
	fragments := []model.Fragment{
		frag("wrapped", 110, 660, 10),
		frag("cell", 145, 672, 10),
		frag("A", 110, 672, 10),
	}
	assert.Equal(t, "A cell wrapped", cellText(fragments))
	assert.Equal(t, "", cellText(nil))
}
