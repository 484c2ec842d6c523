package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"auto", StrategyAuto, false},
		{"fast", StrategyFast, false},
		{"hi_res", StrategyHiRes, false},
		{"ocr_only", StrategyOCROnly, false},
		{" HI_RES ", StrategyHiRes, false},
		{"", "", true},
		{"hires", "", true},
		{"accurate", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name                         string
		strategy                     Strategy
		wantImages, wantTables, text bool
		want                         Strategy
	}{
		{"images requested", StrategyAuto, true, false, true, StrategyHiRes},
		{"tables requested", StrategyAuto, false, true, false, StrategyHiRes},
		{"text layer everywhere", StrategyAuto, false, false, true, StrategyFast},
		{"scanned pages", StrategyAuto, false, false, false, StrategyOCROnly},
		{"explicit fast", StrategyFast, true, true, false, StrategyFast},
		{"explicit ocr", StrategyOCROnly, true, true, true, StrategyOCROnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.strategy, tt.wantImages, tt.wantTables, tt.text))
		})
	}
}

func TestStrategies(t *testing.T) {
	assert.Equal(t, []Strategy{StrategyAuto, StrategyFast, StrategyHiRes, StrategyOCROnly}, Strategies())
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "page 3: OCR failed", Warning{Page: 3, Message: "OCR failed"}.String())
	assert.Equal(t, "no image directory", Warning{Message: "no image directory"}.String())
}
