package partition

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects how page content is obtained
type Strategy string

const (
	StrategyAuto    Strategy = "auto"
	StrategyFast    Strategy = "fast"
	StrategyHiRes   Strategy = "hi_res"
	StrategyOCROnly Strategy = "ocr_only"
)

// ErrUnknownStrategy is returned for a strategy name that is not one of
// auto, fast, hi_res or ocr_only.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategies lists the valid strategies
func Strategies() []Strategy {
	return []Strategy{StrategyAuto, StrategyFast, StrategyHiRes, StrategyOCROnly}
}

// ParseStrategy converts a name into a Strategy. Matching ignores case and
// surrounding space.
func ParseStrategy(s string) (Strategy, error) {
	name := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies() {
		if name == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w %q (want auto, fast, hi_res or ocr_only)", ErrUnknownStrategy, s)
}

// Resolve returns the concrete strategy s stands for. Only auto changes:
// it becomes hi_res when images or tables are wanted, fast when every page
// has a text layer and ocr_only otherwise.
func Resolve(s Strategy, wantImages, wantTables, allText bool) Strategy {
	if s != StrategyAuto {
		return s
	}
	switch {
	case wantImages || wantTables:
		return StrategyHiRes
	case allText:
		return StrategyFast
	default:
		return StrategyOCROnly
	}
}
