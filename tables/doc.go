// Package tables finds tables on a page and exports them.
//
// Two detectors are registered:
//
//   - [GridDetector] ("grid") builds tables from ruling lines, the thin
//     rectangles most producers draw for cell borders
//   - [AlignmentDetector] ("alignment") finds borderless tables: runs of
//     lines that split into the same number of aligned columns
//
// [Extract] runs the configured detectors in order and returns the tables
// together with the fragments no table consumed:
//
//	found, rest := tables.Extract(tables.Page{
//		Width:     page.Width,
//		Height:    page.Height,
//		Fragments: page.Fragments,
//		Rules:     page.Rules,
//	}, tables.DefaultConfig())
//
// Tables render to text, HTML, CSV and Markdown through [model.Table]; this
// package adds XLSX workbooks via [WriteXLSX].
package tables
