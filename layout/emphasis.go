package layout

import (
	"strings"

	"github.com/tsawler/pdfextract/model"
)

// Emphasis tags used in element metadata
const (
	EmphasisBold   = "b"
	EmphasisItalic = "i"
)

// Emphasis returns the runs of bold or italic words in fragments, with the
// matching tag for each run. Bold wins when a font is both.
func Emphasis(fragments []model.Fragment) (contents, tags []string) {
	var run []string
	runTag := ""

	flush := func() {
		if runTag != "" && len(run) > 0 {
			contents = append(contents, strings.Join(run, " "))
			tags = append(tags, runTag)
		}
		run, runTag = nil, ""
	}

	for _, f := range fragments {
		tag := ""
		switch {
		case f.IsBold():
			tag = EmphasisBold
		case f.IsItalic():
			tag = EmphasisItalic
		}
		if tag != runTag {
			flush()
			runTag = tag
		}
		if tag != "" {
			run = append(run, f.Text)
		}
	}
	flush()
	return contents, tags
}
