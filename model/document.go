package model

// DocumentInfo holds document-level properties read from the PDF
type DocumentInfo struct {
	PageCount int            `json:"page_count"`
	Strategy  string         `json:"strategy"`
	Title     string         `json:"title,omitempty"`
	Author    string         `json:"author,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Creator   string         `json:"creator,omitempty"`
	Producer  string         `json:"producer,omitempty"`
	Outline   []OutlineEntry `json:"outline,omitempty"`
}

// OutlineEntry is one bookmark in the document outline
type OutlineEntry struct {
	Title    string         `json:"title"`
	Children []OutlineEntry `json:"children,omitempty"`
}

// Statistics counts extracted elements per family
type Statistics struct {
	TextBlocks int `json:"text_blocks"`
	Titles     int `json:"titles"`
	Images     int `json:"images"`
	Tables     int `json:"tables"`
}

// Add counts one element of the given category
func (s *Statistics) Add(c Category) {
	switch c.Family() {
	case FamilyTitle:
		s.Titles++
	case FamilyText:
		s.TextBlocks++
	case FamilyImage:
		s.Images++
	case FamilyTable:
		s.Tables++
	}
}

// Total returns the number of counted elements
func (s Statistics) Total() int {
	return s.TextBlocks + s.Titles + s.Images + s.Tables
}

// Count tallies a slice of elements
func Count(elements []Element) Statistics {
	var s Statistics
	for _, e := range elements {
		s.Add(e.Category)
	}
	return s
}
