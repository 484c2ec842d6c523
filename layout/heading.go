package layout

import (
	"regexp"
	"strings"
	"unicode"
)

// HeadingConfig holds configuration for heading detection
type HeadingConfig struct {
	// MaxHeadingLines is the maximum number of lines for a heading
	// Default: 3
	MaxHeadingLines int

	// MaxHeadingWords is the maximum number of words for a heading
	// Default: 20
	MaxHeadingWords int

	// BoldWeight is the confidence contributed by a bold face
	// Default: 0.3
	BoldWeight float64

	// AllCapsWeight is the confidence contributed by ALL CAPS text
	// Default: 0.15
	AllCapsWeight float64

	// NumberedWeight is the confidence contributed by a numbering prefix
	// Default: 0.2
	NumberedWeight float64

	// CenterAlignedBoost is the confidence boost for centered headings
	// Default: 0.1
	CenterAlignedBoost float64

	// NumberedPatterns are regex patterns for numbered headings. The first
	// submatch, when present, is the section number.
	NumberedPatterns []*regexp.Regexp

	// MinConfidence is the minimum confidence to consider something a heading
	// Default: 0.5
	MinConfidence float64

	// MaxDepth caps category depth
	// Default: 5
	MaxDepth int
}

// DefaultHeadingConfig returns sensible default configuration
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		MaxHeadingLines:    3,
		MaxHeadingWords:    20,
		BoldWeight:         0.3,
		AllCapsWeight:      0.15,
		NumberedWeight:     0.2,
		CenterAlignedBoost: 0.1,
		NumberedPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(?i)(?:chapter|section|part)\s+(\d+)`),
			regexp.MustCompile(`^(\d{1,3}(?:\.\d{1,3})*)\.?\s+\S`),
			regexp.MustCompile(`^([IVXLCDM]+)\.\s+\S`),
			regexp.MustCompile(`^([A-Z])\.\s+\S`),
		},
		MinConfidence: 0.5,
		MaxDepth:      5,
	}
}

// headingScore is the outcome of scoring a block as a heading
type headingScore struct {
	confidence float64

	// section is the numbering prefix, e.g. "2.3"; empty when unnumbered
	section string
}

// scoreHeading calculates a confidence score for a block being a heading
func (c *Classifier) scoreHeading(b *Block, text string, bodyFontSize float64) headingScore {
	cfg := c.config.Heading
	var score headingScore

	if len(b.Lines) > cfg.MaxHeadingLines {
		return score
	}
	words := len(strings.Fields(text))
	if words == 0 || words > cfg.MaxHeadingWords {
		return score
	}

	confidence := 0.0

	// Font size is the strongest indicator
	if bodyFontSize > 0 {
		ratio := b.AverageFontSize() / bodyFontSize
		switch {
		case ratio >= 1.5:
			confidence += 0.5
		case ratio >= 1.2:
			confidence += 0.35
		case ratio >= 1.1:
			confidence += 0.2
		case ratio >= 1.05:
			confidence += 0.1
		case ratio < 0.95:
			confidence -= 0.2
		}
	}

	if b.Bold() {
		confidence += cfg.BoldWeight
	}
	if isAllCaps(text) {
		confidence += cfg.AllCapsWeight
	}
	for _, p := range cfg.NumberedPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			confidence += cfg.NumberedWeight
			if len(m) > 1 {
				score.section = m[1]
			}
			break
		}
	}
	if b.Centered() {
		confidence += cfg.CenterAlignedBoost
	}

	if words <= 10 {
		confidence += 0.1
	} else {
		confidence += 0.05
	}
	if len(b.Lines) == 1 {
		confidence += 0.1
	}

	// Headings rarely end a sentence
	if strings.HasSuffix(text, ".") && score.section == "" {
		confidence -= 0.15
	}

	score.confidence = clamp01(confidence)
	return score
}

// sectionDepth returns the depth implied by a dotted section number:
// "3" is 0, "3.1" is 1, "3.1.4" is 2. ok is false for non-numeric sections.
func sectionDepth(section string) (depth int, ok bool) {
	if section == "" || !unicode.IsDigit(rune(section[0])) {
		return 0, false
	}
	return strings.Count(strings.TrimSuffix(section, "."), "."), true
}

// isAllCaps checks if text is in all capital letters
func isAllCaps(text string) bool {
	upper, lower := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	return upper >= 3 && lower == 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
