package deps

import (
	"errors"
	"os"
	"runtime"

	"github.com/tsawler/pdfextract/internal/command"
)

// ErrNoManager is returned when none of the supported package managers is
// installed
var ErrNoManager = errors.New("no supported package manager found (apt-get, dnf, yum, pacman, brew)")

// DetectManager returns the first supported manager found on PATH
func DetectManager(runner command.Runner) (Manager, error) {
	for _, m := range Managers {
		if _, err := runner.LookPath(string(m)); err == nil {
			return m, nil
		}
	}
	return "", ErrNoManager
}

// installArgs returns the arguments that install pkg non-interactively
func installArgs(m Manager, pkg string) []string {
	switch m {
	case AptGet:
		return []string{"install", "-y", pkg}
	case DNF, Yum:
		return []string{"install", "-y", pkg}
	case Pacman:
		return []string{"-S", "--noconfirm", "--needed", pkg}
	case Brew:
		return []string{"install", pkg}
	}
	return nil
}

// refreshArgs returns the index refresh run once before installing, if
// the manager needs one
func refreshArgs(m Manager) []string {
	switch m {
	case AptGet:
		return []string{"update"}
	case Pacman:
		return []string{"-Sy", "--noconfirm"}
	}
	return nil
}

// needsSudo reports whether manager commands must go through sudo: on
// Linux when not running as root. Homebrew refuses to run as root.
func needsSudo(m Manager) bool {
	if m == Brew || runtime.GOOS != "linux" {
		return false
	}
	return os.Geteuid() != 0
}
