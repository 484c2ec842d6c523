package pdfextract

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tsawler/pdfextract/model"
)

func fixedClock(t *testing.T) {
	t.Helper()
	now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.Local) }
	t.Cleanup(func() { now = time.Now })
}

func TestSaveTo(t *testing.T) {
	fixedClock(t)
	path := writeReport(t)
	out := t.TempDir()

	res, warnings, err := offline(path).SaveTo(context.Background(), out)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	base := filepath.Join(out, "report")
	assert.Equal(t, base, res.BaseDir)
	assert.Equal(t, "hi_res", res.Strategy)
	for _, dir := range []string{TextDir, ImagesDir, TablesDir, MetadataDir} {
		assert.DirExists(t, filepath.Join(base, dir))
	}

	assert.Equal(t, model.Statistics{TextBlocks: 2, Titles: 1, Images: 1, Tables: 1}, res.Statistics)

	title, err := os.ReadFile(filepath.Join(base, TextDir, "title_0.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Annual Report", string(title))

	assert.FileExists(t, filepath.Join(base, TextDir, "narrativetext_1.txt"))
	assert.FileExists(t, filepath.Join(base, TextDir, "narrativetext_4.txt"))
	assert.NoFileExists(t, filepath.Join(base, TextDir, "narrativetext_5.txt"))

	table, err := os.ReadFile(filepath.Join(base, TablesDir, "table_2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Name\tAge\nAlice\t30\nBob\t41", string(table))
	html, err := os.ReadFile(filepath.Join(base, TablesDir, "table_2.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
	assert.NoFileExists(t, filepath.Join(base, TablesDir, "table_2.xlsx"))

	assert.FileExists(t, filepath.Join(base, ImagesDir, "figure-1-1.png"))
	assert.FileExists(t, filepath.Join(base, ImagesDir, "table-1-1.png"))

	require.Len(t, res.Elements, 5, "page breaks are not recorded")
	assert.Equal(t, 3, res.Elements[3].ElementIndex)
	assert.Equal(t, "Image", res.Elements[3].ElementType)
	assert.Equal(t, filepath.Join(base, ImagesDir, "figure-1-1.png"), res.Elements[3].ImagePath)
	for i, rec := range res.Elements {
		assert.Equal(t, i, rec.ElementIndex, "indices are contiguous across pages")
	}
	assert.Equal(t, 2, res.Elements[4].PageNumber)
	assert.Equal(t, filepath.Join(base, TextDir, "narrativetext_4.txt"), res.Elements[4].ContentPath)
}

func TestSaveToMetadataFile(t *testing.T) {
	fixedClock(t)
	path := writeReport(t)
	out := t.TempDir()

	res, _, err := offline(path).SaveTo(context.Background(), out)
	require.NoError(t, err)

	data, err := os.ReadFile(res.MetadataPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "report.pdf", doc["filename"])
	assert.Equal(t, "2024-03-01T09:30:00.123456", doc["extraction_date"])
	assert.Equal(t, map[string]any{
		"text_blocks": float64(2), "titles": float64(1), "images": float64(1), "tables": float64(1),
	}, doc["statistics"])
	assert.Equal(t, []any{}, doc["warnings"])

	document := doc["document"].(map[string]any)
	assert.Equal(t, float64(2), document["page_count"])
	assert.Equal(t, "hi_res", document["strategy"])
	assert.Equal(t, "Annual Report 2024", document["title"])

	records := doc["elements_metadata"].([]any)
	require.Len(t, records, 5)

	first := records[0].(map[string]any)
	assert.Equal(t, float64(0), first["element_index"])
	assert.Equal(t, "Title", first["element_type"])
	assert.Equal(t, "report.pdf", first["filename"])
	assert.Equal(t, float64(1), first["page_number"])
	assert.Equal(t, float64(0), first["category_depth"])
	assert.NotEmpty(t, first["element_id"])
	assert.Contains(t, first, "coordinates")
	assert.NotContains(t, first, "html_path")
	assert.NotContains(t, first, "links")

	table := records[2].(map[string]any)
	assert.Equal(t, "Table", table["element_type"])
	assert.Contains(t, table["text_as_html"], "<table>")
	assert.Equal(t, filepath.Join(res.BaseDir, TablesDir, "table_2.html"), table["html_path"])
}

func TestSaveToXLSX(t *testing.T) {
	path := writeReport(t)

	res, _, err := offline(path).ExportXLSX(true).SaveTo(context.Background(), t.TempDir())
	require.NoError(t, err)

	xlsx := res.Elements[2].XLSXPath
	require.Equal(t, filepath.Join(res.BaseDir, TablesDir, "table_2.xlsx"), xlsx)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Table")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Alice", "30"}, {"Bob", "41"}}, rows)
}

func TestSaveToFast(t *testing.T) {
	path := writeReport(t)

	res, _, err := offline(path).Strategy("fast").SaveTo(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "fast", res.Strategy)
	assert.Zero(t, res.Statistics.Tables)
	assert.Zero(t, res.Statistics.Images)

	entries, err := os.ReadDir(filepath.Join(res.BaseDir, ImagesDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveToElementWriteFailure(t *testing.T) {
	path := writeReport(t)
	out := t.TempDir()

	// A directory where a text file should go makes that write fail
	require.NoError(t, os.MkdirAll(filepath.Join(out, "report", TextDir, "title_0.txt"), 0o755))

	res, warnings, err := offline(path).SaveTo(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Page)
	assert.Contains(t, warnings[0].Message, "element 0")

	assert.Equal(t, 1, res.Statistics.Titles, "the element is still counted")
	assert.Empty(t, res.Elements[0].ContentPath)
	assert.Equal(t, "Title", res.Elements[0].ElementType)
	assert.FileExists(t, res.MetadataPath)
}

func TestSaveToFailsBeforeWritingMetadata(t *testing.T) {
	out := t.TempDir()
	_, _, err := offline(filepath.Join(t.TempDir(), "missing.pdf")).SaveTo(context.Background(), out)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, "missing", MetadataFile))
}

func TestExtractContent(t *testing.T) {
	path := writeReport(t)
	out := t.TempDir()

	p := NewPDFExtractor(out)
	p.Configure = func(e *Extractor) *Extractor {
		o := offline(path)
		e.options.runner = o.options.runner
		e.options.newEngine = o.options.newEngine
		return e.OCRDPI(72)
	}

	stats, err := p.ExtractContent(context.Background(), path, "hi_res", false, true)
	require.NoError(t, err)
	assert.Equal(t, model.Statistics{TextBlocks: 2, Titles: 1, Tables: 1}, stats)
	assert.FileExists(t, filepath.Join(out, "report", MetadataFile))

	_, err = p.ExtractContent(context.Background(), path, "slow", true, true)
	assert.Error(t, err)
}

func TestNewPDFExtractorDefaultDir(t *testing.T) {
	assert.Equal(t, DefaultOutputDir, NewPDFExtractor("").OutputBaseDir)
}
