// Package model defines the typed elements produced by PDF partitioning.
//
// A partitioned document is an ordered slice of [Element] values. Each element
// carries a [Category] (Title, NarrativeText, ListItem, Table, Image, ...), its
// text, and an [ElementMetadata] record describing where it came from.
//
// # Categories
//
// Categories fall into four families that drive statistics and output layout:
//
//   - titles: [CategoryTitle]
//   - text blocks: [CategoryNarrativeText], [CategoryListItem],
//     [CategoryHeader], [CategoryFooter], [CategoryUncategorized]
//   - tables: [CategoryTable]
//   - images: [CategoryImage]
//
// [CategoryPageBreak] separates pages and belongs to no family.
//
// # Tables
//
// [Table] holds a grid of [Cell] values and renders to plain text, HTML, CSV
// and Markdown.
//
// # Geometry
//
// [BBox] and [Point] use PDF user space (origin bottom-left, units in points).
// [Coordinates] converts to the top-left origin used in output metadata.
package model
