package deps

import (
	"fmt"
	"strings"
)

// Manager is a host package manager, named by its executable
type Manager string

const (
	AptGet Manager = "apt-get"
	DNF    Manager = "dnf"
	Yum    Manager = "yum"
	Pacman Manager = "pacman"
	Brew   Manager = "brew"
)

// Managers lists the supported managers in detection order
var Managers = []Manager{AptGet, DNF, Yum, Pacman, Brew}

// Requirement is one external program or data set pdfextract needs
type Requirement struct {
	Name    string
	Command string
	Purpose string

	// Packages maps each manager to the package providing the requirement
	Packages map[Manager]string

	// VersionArgs make Command print its version; nil skips the version check
	VersionArgs []string

	// MinMajor is the lowest accepted major version; 0 accepts any
	MinMajor int

	// Language, when set, must appear in `tesseract --list-langs`
	Language string

	// Optional requirements are reported but never fail a check
	Optional bool
}

// Package returns the package name for manager
func (r Requirement) Package(m Manager) (string, bool) {
	p, ok := r.Packages[m]
	return p, ok && p != ""
}

var poppler = map[Manager]string{
	AptGet: "poppler-utils",
	DNF:    "poppler-utils",
	Yum:    "poppler-utils",
	Pacman: "poppler",
	Brew:   "poppler",
}

// DefaultRequirements returns, in install order, poppler, tesseract and
// the language data for each OCR language.
func DefaultRequirements(languages []string) []Requirement {
	reqs := []Requirement{
		{
			Name:        "pdftoppm",
			Command:     "pdftoppm",
			Purpose:     "page rendering for OCR and table images",
			Packages:    poppler,
			VersionArgs: []string{"-v"},
		},
		{
			Name:        "pdfimages",
			Command:     "pdfimages",
			Purpose:     "embedded image export",
			Packages:    poppler,
			VersionArgs: []string{"-v"},
			Optional:    true,
		},
		{
			Name:    "tesseract",
			Command: "tesseract",
			Purpose: "OCR engine",
			Packages: map[Manager]string{
				AptGet: "tesseract-ocr",
				DNF:    "tesseract",
				Yum:    "tesseract",
				Pacman: "tesseract",
				Brew:   "tesseract",
			},
			VersionArgs: []string{"--version"},
			MinMajor:    4,
		},
	}

	seen := map[string]bool{}
	for _, lang := range languages {
		lang = strings.TrimSpace(lang)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		reqs = append(reqs, languageRequirement(lang))
	}
	return reqs
}

// debianName maps a tesseract language code to the form Debian package names
// allow: lower case, with hyphens in place of underscores
func debianName(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

func languageRequirement(lang string) Requirement {
	return Requirement{
		Name:    fmt.Sprintf("tesseract-%s", lang),
		Command: "tesseract",
		Purpose: fmt.Sprintf("OCR language data (%s)", lang),
		Packages: map[Manager]string{
			AptGet: "tesseract-ocr-" + debianName(lang),
			DNF:    "tesseract-langpack-" + lang,
			Yum:    "tesseract-langpack-" + lang,
			Pacman: "tesseract-data-" + lang,
			Brew:   "tesseract-lang",
		},
		Language: lang,
	}
}
