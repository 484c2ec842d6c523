package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Category is the semantic type of a partitioned element
type Category string

const (
	CategoryTitle         Category = "Title"
	CategoryNarrativeText Category = "NarrativeText"
	CategoryListItem      Category = "ListItem"
	CategoryHeader        Category = "Header"
	CategoryFooter        Category = "Footer"
	CategoryUncategorized Category = "UncategorizedText"
	CategoryTable         Category = "Table"
	CategoryImage         Category = "Image"
	CategoryPageBreak     Category = "PageBreak"
)

// Family groups categories for statistics and output placement
type Family int

const (
	FamilyNone Family = iota
	FamilyTitle
	FamilyText
	FamilyTable
	FamilyImage
)

func (f Family) String() string {
	switch f {
	case FamilyTitle:
		return "title"
	case FamilyText:
		return "text"
	case FamilyTable:
		return "table"
	case FamilyImage:
		return "image"
	default:
		return "none"
	}
}

// Family returns the family the category belongs to
func (c Category) Family() Family {
	switch c {
	case CategoryTitle:
		return FamilyTitle
	case CategoryNarrativeText, CategoryListItem, CategoryHeader, CategoryFooter, CategoryUncategorized:
		return FamilyText
	case CategoryTable:
		return FamilyTable
	case CategoryImage:
		return FamilyImage
	default:
		return FamilyNone
	}
}

// ParseCategory converts a category name into a Category
func ParseCategory(s string) (Category, error) {
	for _, c := range []Category{
		CategoryTitle, CategoryNarrativeText, CategoryListItem, CategoryHeader,
		CategoryFooter, CategoryUncategorized, CategoryTable, CategoryImage, CategoryPageBreak,
	} {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown element category %q", s)
}

// Element is one partitioned piece of a document
type Element struct {
	ID       string
	Category Category
	Text     string
	Metadata ElementMetadata

	// BBox is the element's box in PDF user space; zero when unknown
	BBox BBox

	// Table is set for CategoryTable
	Table *Table

	// Image is set for CategoryImage
	Image *ImageData
}

// elementNamespace seeds deterministic element IDs
var elementNamespace = uuid.MustParse("6f1c7a52-0d3e-4b8e-9a59-4c1f2e8d7b10")

// AssignID sets a deterministic ID derived from the element's category,
// page, position in the document and text.
func (e *Element) AssignID(index int) {
	key := fmt.Sprintf("%s|%d|%d|%s", e.Category, e.Metadata.PageNumber, index, e.Text)
	e.ID = uuid.NewSHA1(elementNamespace, []byte(key)).String()
}

// NewElement creates an element of the given category on a page
func NewElement(category Category, text string, page int) Element {
	return Element{
		Category: category,
		Text:     text,
		Metadata: ElementMetadata{PageNumber: page},
	}
}

// ImageData describes an image element's stored file
type ImageData struct {
	Path   string
	Format string // png, jpg, ...
	Width  int
	Height int
}
