package deps

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRequirements(t *testing.T) {
	reqs := DefaultRequirements([]string{"eng", "deu", "eng", " "})

	var names []string
	for _, r := range reqs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"pdftoppm", "pdfimages", "tesseract", "tesseract-eng", "tesseract-deu"}, names)

	pkg, ok := reqs[4].Package(AptGet)
	assert.True(t, ok)
	assert.Equal(t, "tesseract-ocr-deu", pkg)
	pkg, _ = reqs[0].Package(Pacman)
	assert.Equal(t, "poppler", pkg)

	_, ok = reqs[0].Package("zypper")
	assert.False(t, ok)
}

func TestLanguagePackageNames(t *testing.T) {
	tests := []struct {
		lang   string
		apt    string
		dnf    string
		pacman string
	}{
		{"eng", "tesseract-ocr-eng", "tesseract-langpack-eng", "tesseract-data-eng"},
		{"chi_sim", "tesseract-ocr-chi-sim", "tesseract-langpack-chi_sim", "tesseract-data-chi_sim"},
		{"deu_latf", "tesseract-ocr-deu-latf", "tesseract-langpack-deu_latf", "tesseract-data-deu_latf"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			reqs := DefaultRequirements([]string{tt.lang})
			lang := reqs[len(reqs)-1]
			assert.Equal(t, tt.lang, lang.Language)

			pkg, _ := lang.Package(AptGet)
			assert.Equal(t, tt.apt, pkg)
			pkg, _ = lang.Package(DNF)
			assert.Equal(t, tt.dnf, pkg)
			pkg, _ = lang.Package(Pacman)
			assert.Equal(t, tt.pacman, pkg)
		})
	}
}

func TestCheckHealthy(t *testing.T) {
	runner := healthy()
	report := NewChecker(runner).Check(context.Background(), DefaultRequirements([]string{"eng"}))

	require.Len(t, report.Statuses, 4)
	assert.True(t, report.OK())
	assert.Empty(t, report.Missing())
	assert.NoError(t, report.Err())
	assert.NotEmpty(t, report.GoVersion)

	assert.Equal(t, "/usr/bin/pdftoppm", report.Statuses[0].Path)
	assert.Equal(t, "22.02.0", report.Statuses[0].Version)
	assert.Equal(t, "5.3.0", report.Statuses[2].Version)
}

func TestCheckListsLanguagesOnce(t *testing.T) {
	runner := healthy()
	NewChecker(runner).Check(context.Background(), DefaultRequirements([]string{"eng", "osd"}))

	count := 0
	for _, c := range runner.calls {
		if c == "tesseract --list-langs" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCheckFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*fakeRunner)
		langs   []string
		failing string
		wantErr error
		ok      bool
	}{
		{
			name:    "tesseract missing",
			mutate:  func(f *fakeRunner) { delete(f.paths, "tesseract") },
			failing: "tesseract",
			wantErr: ErrToolNotFound,
		},
		{
			name:    "tesseract too old",
			mutate:  func(f *fakeRunner) { f.outputs["tesseract --version"] = "tesseract 3.05.01" },
			failing: "tesseract",
			wantErr: ErrVersionTooOld,
		},
		{
			name:    "language missing",
			langs:   []string{"fra"},
			failing: "tesseract-fra",
			wantErr: ErrLanguageMissing,
		},
		{
			name:    "optional pdfimages missing",
			mutate:  func(f *fakeRunner) { delete(f.paths, "pdfimages") },
			failing: "pdfimages",
			wantErr: ErrToolNotFound,
			ok:      true,
		},
		{
			name:    "version command fails",
			mutate:  func(f *fakeRunner) { f.fail = map[string]error{"pdftoppm -v": errors.New("exit status 99")} },
			failing: "pdftoppm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := healthy()
			if tt.mutate != nil {
				tt.mutate(runner)
			}
			langs := tt.langs
			if langs == nil {
				langs = []string{"eng"}
			}
			report := NewChecker(runner).Check(context.Background(), DefaultRequirements(langs))

			assert.Equal(t, tt.ok, report.OK())
			var failed []string
			for _, s := range report.Statuses {
				if !s.OK() {
					failed = append(failed, s.Requirement.Name)
					if tt.wantErr != nil {
						assert.ErrorIs(t, s.Err, tt.wantErr)
					}
				}
			}
			assert.Contains(t, failed, tt.failing)
			if tt.ok {
				assert.NoError(t, report.Err())
			} else {
				assert.Error(t, report.Err())
			}
		})
	}
}

func TestCheckMissingToolSkipsVersionCheck(t *testing.T) {
	runner := &fakeRunner{}
	report := NewChecker(runner).Check(context.Background(), DefaultRequirements([]string{"eng"}))

	assert.Empty(t, runner.calls)
	assert.Len(t, report.Missing(), 4)
	assert.ErrorIs(t, report.Err(), ErrToolNotFound)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		version string
		major   int
		ok      bool
	}{
		{"tesseract 5.3.0", "5.3.0", 5, true},
		{"tesseract v4.1", "4.1", 4, true},
		{"pdftoppm version 0.86.1", "0.86.1", 0, true},
		{"unknown", "", 0, false},
	}
	for _, tt := range tests {
		v, major, ok := parseVersion(tt.in)
		assert.Equal(t, tt.version, v, tt.in)
		assert.Equal(t, tt.major, major, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestParseLanguages(t *testing.T) {
	out := "List of available languages in \"/usr/share/tessdata/\" (3):\neng\nosd\nchi_sim\n"
	assert.Equal(t, []string{"eng", "osd", "chi_sim"}, parseLanguages(out))
	assert.Empty(t, parseLanguages(""))
}

func TestVersionOutputWithoutNumber(t *testing.T) {
	runner := healthy()
	runner.outputs["pdftoppm -v"] = ""
	report := NewChecker(runner).Check(context.Background(), DefaultRequirements(nil))
	assert.True(t, report.Statuses[0].OK())
	assert.Empty(t, report.Statuses[0].Version)
}
