package model

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table represents a table with cells organized in rows and columns
type Table struct {
	Rows       [][]Cell
	BBox       BBox
	HasGrid    bool    // Whether table has visible ruling lines
	Confidence float64 // Detection confidence (0-1)
}

// Cell represents a table cell
type Cell struct {
	Text     string
	BBox     BBox
	IsHeader bool
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows:       make([][]Cell, rows),
		Confidence: 1.0,
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Cell returns the cell at the given row and column, or nil when out of range
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// IsEmpty reports whether every cell is blank
func (t *Table) IsEmpty() bool {
	for _, row := range t.Rows {
		for _, cell := range row {
			if strings.TrimSpace(cell.Text) != "" {
				return false
			}
		}
	}
	return true
}

// Text renders the table as tab-separated rows
func (t *Table) Text() string {
	var sb strings.Builder
	for i, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		if i < len(t.Rows)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ToHTML renders the table as an HTML fragment. Header rows go into thead.
func (t *Table) ToHTML() string {
	if len(t.Rows) == 0 {
		return ""
	}

	table := element(atom.Table)
	var body *html.Node
	for _, row := range t.Rows {
		header := rowIsHeader(row)
		tr := element(atom.Tr)
		for _, cell := range row {
			tag := atom.Td
			if header {
				tag = atom.Th
			}
			td := element(tag)
			if cell.Text != "" {
				td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
			}
			tr.AppendChild(td)
		}
		if header && body == nil {
			thead := table.LastChild
			if thead == nil || thead.DataAtom != atom.Thead {
				thead = element(atom.Thead)
				table.AppendChild(thead)
			}
			thead.AppendChild(tr)
			continue
		}
		if body == nil {
			body = element(atom.Tbody)
			table.AppendChild(body)
		}
		body.AppendChild(tr)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, table); err != nil {
		return ""
	}
	return buf.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []Cell) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for range t.Rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}
	return sb.String()
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func rowIsHeader(row []Cell) bool {
	if len(row) == 0 {
		return false
	}
	for _, cell := range row {
		if !cell.IsHeader {
			return false
		}
	}
	return true
}
