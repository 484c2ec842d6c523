package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfextract/model"
)

func TestDetectors(t *testing.T) {
	names := func(config Config) []string {
		var out []string
		for _, d := range Detectors(config) {
			out = append(out, d.Name())
		}
		return out
	}

	config := DefaultConfig()
	assert.Equal(t, []string{"grid", "alignment"}, names(config))

	config.UseLines = false
	assert.Equal(t, []string{"alignment"}, names(config))

	config.UseWhitespace = false
	assert.Empty(t, names(config))

	assert.NotSame(t, Detectors(DefaultConfig())[0], Detectors(DefaultConfig())[0], "detectors are not shared")
}

func TestExtractGridConsumesCells(t *testing.T) {
	prose := frag("Some prose below the table", 100, 500, 10)
	page := Page{
		Width:     612,
		Height:    792,
		Fragments: append(peopleTable(), prose),
		Rules:     gridRules([]float64{700, 680, 660, 640}, []float64{100, 250, 400}),
	}

	found, remaining := Extract(page, DefaultConfig())
	require.Len(t, found, 1)
	assert.True(t, found[0].HasGrid)
	require.Len(t, remaining, 1)
	assert.Equal(t, prose.Text, remaining[0].Text)
}

func TestExtractOrdersTablesTopDown(t *testing.T) {
	fragments := append(peopleTable(), priceList(400)...)
	page := Page{
		Width:     612,
		Height:    792,
		Fragments: fragments,
		Rules:     gridRules([]float64{700, 680, 660, 640}, []float64{100, 250, 400}),
	}

	found, remaining := Extract(page, DefaultConfig())
	require.Len(t, found, 2)
	assert.True(t, found[0].HasGrid)
	assert.False(t, found[1].HasGrid)
	assert.Equal(t, "Product", found[1].Rows[0][0].Text)
	assert.Empty(t, remaining)
}

func TestExtractWhitespaceOnly(t *testing.T) {
	config := DefaultConfig()
	config.UseLines = false

	page := Page{
		Width:     612,
		Height:    792,
		Fragments: peopleTable(),
		Rules:     gridRules([]float64{700, 680, 660, 640}, []float64{100, 250, 400}),
	}

	found, _ := Extract(page, config)
	require.Len(t, found, 1)
	assert.False(t, found[0].HasGrid, "rules are ignored")
	assert.Equal(t, "Alice", found[0].Rows[1][0].Text)
}

func TestExtractNothing(t *testing.T) {
	config := DefaultConfig()
	config.UseLines = false
	config.UseWhitespace = false

	page := Page{Fragments: peopleTable()}
	found, remaining := Extract(page, config)
	assert.Empty(t, found)
	assert.Len(t, remaining, len(page.Fragments))
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()

	filled := model.NewTable(2, 2)
	filled.Rows[0][0].Text = "x"

	lowConfidence := model.NewTable(2, 2)
	lowConfidence.Rows[0][0].Text = "x"
	lowConfidence.Confidence = 0.2

	tests := []struct {
		name  string
		table *model.Table
		want  bool
	}{
		{"nil", nil, false},
		{"filled", filled, true},
		{"empty", model.NewTable(2, 2), false},
		{"one column", model.NewTable(3, 1), false},
		{"low confidence", lowConfidence, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate(tt.table, config))
		})
	}
}
