package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfextract"
	"github.com/tsawler/pdfextract/deps"
	"github.com/tsawler/pdfextract/internal/catalog"
	"github.com/tsawler/pdfextract/internal/config"
	"github.com/tsawler/pdfextract/model"
)

// extractFlags mirror the config keys; only flags set on the command line
// override the config file
type extractFlags struct {
	output    string
	strategy  string
	images    bool
	tables    bool
	languages []string
	ocrDPI    int
	xlsx      bool
	asJSON    bool
	noCatalog bool
}

func (a *app) extractCmd() *cobra.Command {
	var f extractFlags
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "extract <pdf>...",
		Short: "Extract content from PDF files",
		Long: `Extracts every PDF into <output>/<name>/ with text, tables, images and
metadata subdirectories and a document_metadata.json file. Each run is
recorded in the history catalog.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a.cfg); err != nil {
				return err
			}
			return a.runExtract(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", def.OutputDir, "output base directory")
	flags.StringVarP(&f.strategy, "strategy", "s", def.Strategy, "auto, fast, hi_res or ocr_only")
	flags.BoolVar(&f.images, "images", def.ExtractImages, "export embedded images")
	flags.BoolVar(&f.tables, "tables", def.ExtractTables, "detect tables")
	flags.StringSliceVarP(&f.languages, "languages", "l", def.Languages, "OCR languages")
	flags.IntVar(&f.ocrDPI, "ocr-dpi", def.OCRDPI, "page render resolution for OCR")
	flags.BoolVar(&f.xlsx, "xlsx", def.ExportXLSX, "also write tables as XLSX workbooks")
	flags.BoolVar(&f.asJSON, "json", false, "print statistics as JSON")
	flags.BoolVar(&f.noCatalog, "no-catalog", false, "do not record runs in the history catalog")
	return cmd
}

// apply copies explicitly set flags into cfg and validates the result
func (f extractFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.OutputDir = f.output
	}
	if changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if changed("images") {
		cfg.ExtractImages = f.images
	}
	if changed("tables") {
		cfg.ExtractTables = f.tables
	}
	if changed("languages") {
		cfg.Languages = f.languages
	}
	if changed("ocr-dpi") {
		cfg.OCRDPI = f.ocrDPI
	}
	if changed("xlsx") {
		cfg.ExportXLSX = f.xlsx
	}
	return cfg.Validate()
}

// fileReport is one entry of the --json output
type fileReport struct {
	File       string            `json:"file"`
	OutputDir  string            `json:"output_dir,omitempty"`
	Strategy   string            `json:"strategy,omitempty"`
	Statistics *model.Statistics `json:"statistics,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func (a *app) runExtract(cmd *cobra.Command, files []string, f extractFlags) error {
	ctx := cmd.Context()

	var cat *catalog.Catalog
	if !f.noCatalog {
		c, err := catalog.Open(a.cfg.CatalogPath)
		if err != nil {
			a.logger.Warn("cli: history catalog unavailable", "path", a.cfg.CatalogPath, "error", err)
		} else {
			cat = c
			defer cat.Close()
		}
	}

	var (
		reports []fileReport
		failed  int
	)
	for _, file := range files {
		rep := a.extractOne(ctx, file, cat)
		reports = append(reports, rep)
		if rep.Error != "" {
			failed++
		}
		if f.asJSON {
			continue
		}
		printReport(cmd, rep)
	}

	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// extractOne extracts file with the current configuration and records the
// run in cat when it is not nil
func (a *app) extractOne(ctx context.Context, file string, cat *catalog.Catalog) fileReport {
	rep := fileReport{File: file}
	run := &catalog.Run{
		SourcePath: file,
		Strategy:   a.cfg.Strategy,
		StartedAt:  time.Now(),
	}

	res, warnings, err := pdfextract.Open(file).
		Strategy(a.cfg.Strategy).
		ExtractImages(a.cfg.ExtractImages).
		ExtractTables(a.cfg.ExtractTables).
		Languages(a.cfg.Languages...).
		OCRDPI(a.cfg.OCRDPI).
		ExportXLSX(a.cfg.ExportXLSX).
		WithLogger(a.logger).
		SaveTo(ctx, a.cfg.OutputDir)
	run.FinishedAt = time.Now()

	for _, w := range warnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	run.Warnings = len(warnings)

	if err != nil {
		rep.Error = err.Error()
		run.Status = catalog.StatusFailed
		run.Error = err.Error()
		run.OutputDir = a.cfg.OutputDir
	} else {
		stats := res.Statistics
		rep.Statistics = &stats
		rep.OutputDir = res.BaseDir
		rep.Strategy = res.Strategy
		run.Status = catalog.StatusOK
		run.Statistics = stats
		run.Strategy = res.Strategy
		run.OutputDir = res.BaseDir
	}

	if cat != nil {
		if err := cat.Record(ctx, run); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("cli: recording run", "file", file, "error", err)
		}
	}
	return rep
}

func printReport(cmd *cobra.Command, rep fileReport) {
	name := filepath.Base(rep.File)
	if rep.Error != "" {
		cmd.Println(deps.Error(fmt.Sprintf("%s: %s", name, rep.Error)))
		return
	}
	cmd.Println(deps.OK(fmt.Sprintf("%s (%s)", name, rep.Strategy)))
	s := rep.Statistics
	cmd.Printf("  text_blocks: %d\n  titles: %d\n  images: %d\n  tables: %d\n", s.TextBlocks, s.Titles, s.Images, s.Tables)
	for _, w := range rep.Warnings {
		cmd.Println("  " + deps.Warn(w))
	}
	cmd.Printf("  saved in %s\n", rep.OutputDir)
}
