// Package layout turns positioned text fragments into classified page
// regions.
//
// The pipeline runs in two passes. [Analyzer.Layout] works on one page at a
// time:
//
//   - [ColumnDetector] finds whitespace gutters between text columns
//   - [LineDetector] groups fragments that share a baseline into lines
//   - [BlockDetector] groups consecutive lines into blocks
//
// [Analyzer.Classify] then looks at the whole document:
//
//   - [HeaderFooterDetector] marks text repeated in the top or bottom band
//   - [Classifier] labels the remaining blocks as Title, ListItem,
//     NarrativeText or UncategorizedText and assigns heading depth
//
// Usage:
//
//	analyzer := layout.NewAnalyzer()
//	var pages []*layout.PageLayout
//	for _, p := range readerPages {
//		pages = append(pages, analyzer.Layout(p.Number, p.Fragments, p.Width, p.Height))
//	}
//	analyzer.Classify(pages)
//	for _, region := range pages[0].Regions {
//		fmt.Println(region.Category, region.Text)
//	}
package layout
