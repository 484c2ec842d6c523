package model

// CoordinateSystem names the space element coordinates are expressed in
type CoordinateSystem string

const (
	// PointSpace is PDF points with a top-left origin
	PointSpace CoordinateSystem = "PointSpace"
	// PixelSpace is pixels of a rendered page image
	PixelSpace CoordinateSystem = "PixelSpace"
)

// Coordinates is the polygon around an element
type Coordinates struct {
	Points       [][2]float64     `json:"points"`
	System       CoordinateSystem `json:"system"`
	LayoutWidth  float64          `json:"layout_width,omitempty"`
	LayoutHeight float64          `json:"layout_height,omitempty"`
}

// Link is a hyperlink found inside an element
type Link struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	StartIdx int    `json:"start_index"`
}

// ElementMetadata holds everything known about an element besides its text.
// Zero values are omitted when serialised.
type ElementMetadata struct {
	Coordinates            *Coordinates `json:"coordinates,omitempty"`
	PageNumber             int          `json:"page_number,omitempty"`
	PageName               string       `json:"page_name,omitempty"`
	Languages              []string     `json:"languages,omitempty"`
	Links                  []Link       `json:"links,omitempty"`
	LinkURLs               []string     `json:"link_urls,omitempty"`
	LinkTexts              []string     `json:"link_texts,omitempty"`
	URL                    string       `json:"url,omitempty"`
	CategoryDepth          *int         `json:"category_depth,omitempty"`
	Section                string       `json:"section,omitempty"`
	TextAsHTML             string       `json:"text_as_html,omitempty"`
	EmphasizedTextContents []string     `json:"emphasized_text_contents,omitempty"`
	EmphasizedTextTags     []string     `json:"emphasized_text_tags,omitempty"`
	ImagePath              string       `json:"image_path,omitempty"`
	DetectionClassProb     *float64     `json:"detection_class_prob,omitempty"`
}

// SetDepth records the hierarchy depth of a title or list item
func (m *ElementMetadata) SetDepth(depth int) {
	m.CategoryDepth = &depth
}

// SetProbability records a detection confidence in [0, 1]
func (m *ElementMetadata) SetProbability(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	m.DetectionClassProb = &p
}

// AddLink records a hyperlink and keeps the parallel url/text slices in step
func (m *ElementMetadata) AddLink(text, url string, start int) {
	m.Links = append(m.Links, Link{Text: text, URL: url, StartIdx: start})
	m.LinkURLs = append(m.LinkURLs, url)
	m.LinkTexts = append(m.LinkTexts, text)
}

// AddEmphasis records a run of emphasized text with its tag (b or i)
func (m *ElementMetadata) AddEmphasis(text, tag string) {
	m.EmphasizedTextContents = append(m.EmphasizedTextContents, text)
	m.EmphasizedTextTags = append(m.EmphasizedTextTags, tag)
}
