package layout

import (
	"regexp"
	"strings"
)

// ListType represents the kind of marker that starts a list item
type ListType int

const (
	ListTypeUnknown ListType = iota
	ListTypeBullet
	ListTypeNumbered
	ListTypeLettered
	ListTypeRoman
)

// String returns a string representation of the list type
func (t ListType) String() string {
	switch t {
	case ListTypeBullet:
		return "bullet"
	case ListTypeNumbered:
		return "numbered"
	case ListTypeLettered:
		return "lettered"
	case ListTypeRoman:
		return "roman"
	default:
		return "unknown"
	}
}

// ListMarker describes the marker found at the start of a list item
type ListMarker struct {
	Type ListType

	// Prefix is the marker itself, e.g. "•", "3." or "b)"
	Prefix string

	// Text is the item text after the marker
	Text string

	// Number is the ordinal of the marker (1 for "a.", 4 for "iv)"); 0 for bullets
	Number int
}

var bulletRunes = map[rune]bool{
	'•': true, '●': true, '○': true, '◦': true, '◉': true,
	'■': true, '□': true, '▪': true, '▫': true,
	'‣': true, '⁃': true,
	'→': true, '▶': true, '►': true, '▸': true, '➤': true, '➜': true,
	'☐': true, '☑': true, '✓': true, '✔': true,
	'-': true, '–': true, '*': true, '+': true, '·': true,
}

var (
	numberedPattern = regexp.MustCompile(`^(\d{1,3})[.)]\s+`)
	letteredPattern = regexp.MustCompile(`^([a-zA-Z])[.)]\s+`)
	romanPattern    = regexp.MustCompile(`^([ivxlcdmIVXLCDM]{1,7})[.)]\s+`)
	parenPattern    = regexp.MustCompile(`^\((\d{1,3}|[a-zA-Z]|[ivxlcdm]{1,7})\)\s+`)
)

// DetectListMarker checks whether text starts with a bullet or an
// enumeration marker followed by item text.
func DetectListMarker(text string) (ListMarker, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ListMarker{}, false
	}

	runes := []rune(text)
	if bulletRunes[runes[0]] && len(runes) > 1 {
		rest := strings.TrimSpace(string(runes[1:]))
		// "-5%" and "*note" are not list items; a bullet needs a space after it
		if rest != "" && (runes[1] == ' ' || runes[1] == '\t' || !isASCIIBullet(runes[0])) {
			return ListMarker{Type: ListTypeBullet, Prefix: string(runes[0]), Text: rest}, true
		}
	}

	if m := numberedPattern.FindStringSubmatch(text); m != nil {
		return marker(ListTypeNumbered, text, m, parseNumber(m[1])), true
	}
	// Roman numerals are checked before letters so "i." is one, not a letter
	if m := romanPattern.FindStringSubmatch(text); m != nil && isValidRoman(m[1]) && (len(m[1]) > 1 || strings.ContainsAny(m[1], "iIvVxX")) {
		return marker(ListTypeRoman, text, m, romanToNumber(m[1])), true
	}
	if m := letteredPattern.FindStringSubmatch(text); m != nil {
		return marker(ListTypeLettered, text, m, letterToNumber(m[1])), true
	}
	if m := parenPattern.FindStringSubmatch(text); m != nil {
		inner := m[1]
		switch {
		case inner[0] >= '0' && inner[0] <= '9':
			return marker(ListTypeNumbered, text, m, parseNumber(inner)), true
		case len(inner) == 1 && !strings.ContainsAny(inner, "ivx"):
			return marker(ListTypeLettered, text, m, letterToNumber(inner)), true
		default:
			return marker(ListTypeRoman, text, m, romanToNumber(inner)), true
		}
	}

	return ListMarker{}, false
}

func isASCIIBullet(r rune) bool {
	return r == '-' || r == '*' || r == '+'
}

func marker(t ListType, text string, m []string, number int) ListMarker {
	return ListMarker{
		Type:   t,
		Prefix: strings.TrimSpace(m[0]),
		Text:   strings.TrimSpace(text[len(m[0]):]),
		Number: number,
	}
}

// IsListItemText reports whether text appears to be a list item
func IsListItemText(text string) bool {
	m, ok := DetectListMarker(text)
	return ok && m.Text != ""
}

func parseNumber(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// letterToNumber converts a letter to its position (a=1, b=2, ...)
func letterToNumber(s string) int {
	if s == "" {
		return 0
	}
	r := rune(strings.ToLower(s)[0])
	if r >= 'a' && r <= 'z' {
		return int(r - 'a' + 1)
	}
	return 0
}

func isValidRoman(s string) bool {
	if s == "" {
		return false
	}
	upper := strings.ToUpper(s)
	if upper != s && strings.ToLower(s) != s {
		return false // mixed case
	}
	n := romanToNumber(s)
	return n > 0 && toRoman(n) == upper
}

var romanValues = map[rune]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

func romanToNumber(s string) int {
	s = strings.ToUpper(s)
	total, prev := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		v := romanValues[rune(s[i])]
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total
}

func toRoman(n int) string {
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var sb strings.Builder
	for i, v := range values {
		for n >= v {
			sb.WriteString(symbols[i])
			n -= v
		}
	}
	return sb.String()
}
