package pdfextract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsawler/pdfextract/model"
	"github.com/tsawler/pdfextract/tables"
)

// Output subdirectories created under <out>/<stem>
const (
	TextDir     = "text"
	ImagesDir   = "images"
	TablesDir   = "tables"
	MetadataDir = "metadata"

	// MetadataFile is written last, after every element file
	MetadataFile = "document_metadata.json"
)

// dateLayout is local ISO-8601 with microseconds and no zone
const dateLayout = "2006-01-02T15:04:05.000000"

var now = time.Now

// Result describes a completed SaveTo run
type Result struct {
	// BaseDir is <out>/<stem>
	BaseDir      string
	MetadataPath string

	Statistics model.Statistics
	Elements   []ElementRecord

	// Strategy is the strategy actually used; never auto
	Strategy string
}

// ElementRecord is one entry of elements_metadata in the metadata file
type ElementRecord struct {
	ElementIndex   int    `json:"element_index"`
	ElementType    string `json:"element_type"`
	ElementID      string `json:"element_id"`
	Filename       string `json:"filename"`
	ExtractionDate string `json:"extraction_date"`

	model.ElementMetadata

	ContentPath string `json:"content_path,omitempty"`
	HTMLPath    string `json:"html_path,omitempty"`
	XLSXPath    string `json:"xlsx_path,omitempty"`
}

// DocumentMetadata is the content of document_metadata.json
type DocumentMetadata struct {
	Filename         string             `json:"filename"`
	ExtractionDate   string             `json:"extraction_date"`
	Statistics       model.Statistics   `json:"statistics"`
	ElementsMetadata []ElementRecord    `json:"elements_metadata"`
	Document         model.DocumentInfo `json:"document"`
	Warnings         []string           `json:"warnings"`
}

// SaveTo partitions the document and writes it under
// <outputBaseDir>/<file stem>: element text to text/, tables to tables/,
// images to images/ and document_metadata.json at the top. A failure to
// write a single element is reported as a warning.
//
// Example:
//
//	res, warnings, err := pdfextract.Open("report.pdf").ExportXLSX(true).SaveTo(ctx, "out")
func (e *Extractor) SaveTo(ctx context.Context, outputBaseDir string) (*Result, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if e.filename == "" {
		return nil, nil, fmt.Errorf("no filename specified")
	}

	stem := strings.TrimSuffix(filepath.Base(e.filename), filepath.Ext(e.filename))
	base := filepath.Join(outputBaseDir, stem)
	if err := createOutputDirs(base); err != nil {
		return nil, nil, err
	}

	part, err := e.partition(ctx, filepath.Join(base, ImagesDir))
	if err != nil {
		return nil, nil, err
	}
	warnings := part.Warnings

	filename := filepath.Base(e.filename)
	res := &Result{
		BaseDir:      base,
		MetadataPath: filepath.Join(base, MetadataFile),
		Strategy:     string(part.Strategy),
	}

	// Indices count written elements only, so page breaks leave no gaps
	i := 0
	for _, el := range part.Elements {
		if el.Category == model.CategoryPageBreak {
			continue
		}
		rec, err := e.writeElement(base, i, el)
		rec.Filename = filename
		rec.ExtractionDate = now().Format(dateLayout)
		if err != nil {
			e.log().Warn("pdfextract: writing element", "index", i, "error", err)
			warnings = append(warnings, Warning{
				Page:    el.Metadata.PageNumber,
				Message: fmt.Sprintf("element %d: %v", i, err),
			})
		}
		res.Elements = append(res.Elements, rec)
		res.Statistics.Add(el.Category)
		i++
	}

	meta := DocumentMetadata{
		Filename:         filename,
		ExtractionDate:   now().Format(dateLayout),
		Statistics:       res.Statistics,
		ElementsMetadata: res.Elements,
		Document:         part.Info,
		Warnings:         make([]string, 0, len(warnings)),
	}
	if meta.ElementsMetadata == nil {
		meta.ElementsMetadata = []ElementRecord{}
	}
	for _, w := range warnings {
		meta.Warnings = append(meta.Warnings, w.String())
	}
	if err := writeJSON(res.MetadataPath, meta); err != nil {
		return nil, warnings, fmt.Errorf("writing %s: %w", MetadataFile, err)
	}

	e.log().Info("pdfextract: saved",
		"dir", base, "titles", res.Statistics.Titles, "text_blocks", res.Statistics.TextBlocks,
		"tables", res.Statistics.Tables, "images", res.Statistics.Images)
	return res, warnings, nil
}

func createOutputDirs(base string) error {
	for _, dir := range []string{base, filepath.Join(base, TextDir), filepath.Join(base, ImagesDir),
		filepath.Join(base, TablesDir), filepath.Join(base, MetadataDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return nil
}

// writeElement writes the files for one element. The record is filled in
// as far as writing got, so it is usable even when an error is returned.
func (e *Extractor) writeElement(base string, index int, el model.Element) (ElementRecord, error) {
	rec := ElementRecord{
		ElementIndex:    index,
		ElementType:     string(el.Category),
		ElementID:       el.ID,
		ElementMetadata: el.Metadata,
	}

	switch el.Category.Family() {
	case model.FamilyText, model.FamilyTitle:
		path := filepath.Join(base, TextDir, fmt.Sprintf("%s_%d.txt", strings.ToLower(string(el.Category)), index))
		if err := os.WriteFile(path, []byte(el.Text), 0o644); err != nil {
			return rec, err
		}
		rec.ContentPath = path

	case model.FamilyTable:
		path := filepath.Join(base, TablesDir, fmt.Sprintf("table_%d.txt", index))
		if err := os.WriteFile(path, []byte(el.Text), 0o644); err != nil {
			return rec, err
		}
		rec.ContentPath = path

		if el.Metadata.TextAsHTML != "" {
			path := filepath.Join(base, TablesDir, fmt.Sprintf("table_%d.html", index))
			if err := os.WriteFile(path, []byte(el.Metadata.TextAsHTML), 0o644); err != nil {
				return rec, err
			}
			rec.HTMLPath = path
		}

		if e.options.exportXLSX && el.Table != nil {
			path := filepath.Join(base, TablesDir, fmt.Sprintf("table_%d.xlsx", index))
			if err := tables.WriteXLSX(el.Table, path); err != nil {
				return rec, err
			}
			rec.XLSXPath = path
		}

	case model.FamilyImage:
		if el.Image != nil && rec.ImagePath == "" {
			rec.ImagePath = el.Image.Path
		}
	}
	return rec, nil
}

// writeJSON writes v with two-space indentation, leaving non-ASCII and
// HTML characters unescaped.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
