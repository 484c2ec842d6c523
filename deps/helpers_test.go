package deps

import (
	"context"
	"fmt"

	"github.com/tsawler/pdfextract/internal/command"
)

// fakeRunner maps command names to canned output. Commands missing from
// paths are not on PATH.
type fakeRunner struct {
	paths   map[string]bool
	outputs map[string]string
	fail    map[string]error
	calls   []string
}

var _ command.Runner = (*fakeRunner)(nil)

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := command.String(name, args...)
	f.calls = append(f.calls, line)
	if err, ok := f.fail[line]; ok {
		return nil, err
	}
	return []byte(f.outputs[line]), nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.paths[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("%w: %s", command.ErrNotFound, name)
}

// healthy returns a runner where every default requirement passes
func healthy() *fakeRunner {
	return &fakeRunner{
		paths: map[string]bool{"pdftoppm": true, "pdfimages": true, "tesseract": true},
		outputs: map[string]string{
			"pdftoppm -v":            "pdftoppm version 22.02.0\nCopyright 2005-2022 The Poppler Developers",
			"pdfimages -v":           "pdfimages version 22.02.0",
			"tesseract --version":    "tesseract 5.3.0\n leptonica-1.82.0",
			"tesseract --list-langs": "List of available languages in \"/usr/share/tesseract-ocr/5/tessdata/\" (2):\neng\nosd\n",
		},
	}
}
