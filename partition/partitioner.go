package partition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/layout"
	"github.com/tsawler/pdfextract/model"
	"github.com/tsawler/pdfextract/ocr"
	"github.com/tsawler/pdfextract/reader"
	"github.com/tsawler/pdfextract/tables"
)

// ErrNoPages is returned for a document without pages
var ErrNoPages = errors.New("document has no pages")

// Result is the output of a partition run
type Result struct {
	Elements []model.Element

	// Strategy is the strategy actually used; never auto
	Strategy Strategy

	Info     model.DocumentInfo
	Warnings []Warning
}

// pageState carries one page through the pipeline
type pageState struct {
	number        int
	width, height float64
	hasText       bool

	// ocr is set when the fragments came from OCR
	ocr        bool
	fragments  []model.Fragment
	rules      []model.Rule
	links      []reader.Link
	layout     *layout.PageLayout
	tables     []*model.Table
	tableImage []string
	images     []ExportedImage
}

// Partitioner turns an open PDF into elements
type Partitioner struct {
	reader   *reader.Reader
	path     string
	opts     Options
	runner   command.Runner
	engine   ocr.Engine
	logger   *slog.Logger
	analyzer *layout.Analyzer
}

// New creates a partitioner for the PDF at path, already opened as r.
// OCR is unavailable until an engine is set with WithEngine.
func New(r *reader.Reader, path string, opts Options) *Partitioner {
	if opts.OCRDPI <= 0 {
		opts.OCRDPI = ocr.DefaultDPI
	}
	return &Partitioner{
		reader:   r,
		path:     path,
		opts:     opts,
		runner:   command.Exec{},
		logger:   slog.New(slog.DiscardHandler),
		analyzer: layout.NewAnalyzerWithConfig(opts.Layout),
	}
}

// WithRunner sets the runner used for poppler commands
func (p *Partitioner) WithRunner(runner command.Runner) *Partitioner {
	p.runner = runner
	return p
}

// WithEngine sets the OCR engine
func (p *Partitioner) WithEngine(engine ocr.Engine) *Partitioner {
	p.engine = engine
	return p
}

// WithLogger sets the logger
func (p *Partitioner) WithLogger(logger *slog.Logger) *Partitioner {
	if logger != nil {
		p.logger = logger
	}
	return p
}

func (p *Partitioner) warn(res *Result, page int, format string, args ...any) {
	w := Warning{Page: page, Message: fmt.Sprintf(format, args...)}
	p.logger.Warn("partition: "+w.Message, "page", page)
	res.Warnings = append(res.Warnings, w)
}

// Partition runs the pipeline. Problems confined to one page or one
// element become warnings; only an invalid request, an unreadable document
// or cancellation fail the run.
func (p *Partitioner) Partition(ctx context.Context) (*Result, error) {
	strategy, err := ParseStrategy(string(p.opts.Strategy))
	if err != nil {
		return nil, err
	}
	numbers, err := p.pageNumbers()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	pages := make([]*pageState, 0, len(numbers))
	allText := true
	for _, n := range numbers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ps := p.loadPage(n, res)
		allText = allText && ps.hasText
		pages = append(pages, ps)
	}

	res.Strategy = Resolve(strategy, p.opts.ExtractImages, p.opts.ExtractTables, allText)
	p.logger.Debug("partition: strategy resolved",
		"requested", strategy, "resolved", res.Strategy, "pages", len(pages))

	var recognizer *ocr.Recognizer
	if p.engine != nil {
		recognizer = ocr.NewRecognizer(ocr.NewRenderer(p.runner, p.opts.OCRDPI), p.engine)
	}

	layouts := make([]*layout.PageLayout, len(pages))
	for i, ps := range pages {
		if err := p.loadText(ctx, ps, res, recognizer); err != nil {
			return nil, err
		}
		if res.Strategy == StrategyHiRes && p.opts.ExtractTables {
			ps.tables, ps.fragments = tables.Extract(tables.Page{
				Width:     ps.width,
				Height:    ps.height,
				Fragments: ps.fragments,
				Rules:     ps.rules,
			}, p.opts.Tables)
		}
		ps.layout = p.analyzer.Layout(ps.number, ps.fragments, ps.width, ps.height)
		layouts[i] = ps.layout
	}
	p.analyzer.Classify(layouts)

	if res.Strategy == StrategyHiRes {
		if p.opts.ExtractImages {
			if err := p.extractImages(ctx, pages, res); err != nil {
				return nil, err
			}
		}
		if p.opts.ExtractTables && p.opts.TableImages {
			if err := p.cropTables(ctx, pages, res); err != nil {
				return nil, err
			}
		}
	}

	res.Elements = p.assemble(pages)

	res.Info = p.reader.Info()
	res.Info.Strategy = string(res.Strategy)
	res.Info.Outline = p.reader.Outline()
	return res, nil
}

// pageNumbers returns the requested pages, sorted and deduplicated
func (p *Partitioner) pageNumbers() ([]int, error) {
	count := p.reader.PageCount()
	if count == 0 {
		return nil, ErrNoPages
	}

	if len(p.opts.Pages) == 0 {
		numbers := make([]int, count)
		for i := range numbers {
			numbers[i] = i + 1
		}
		return numbers, nil
	}

	seen := make(map[int]bool, len(p.opts.Pages))
	var numbers []int
	for _, n := range p.opts.Pages {
		if n < 1 || n > count {
			return nil, fmt.Errorf("page %d of %d: %w", n, count, reader.ErrPageOutOfRange)
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}

func (p *Partitioner) loadPage(n int, res *Result) *pageState {
	ps := &pageState{number: n, width: 612, height: 792}

	page, err := p.reader.Page(n)
	if err != nil {
		p.warn(res, n, "reading page: %v", err)
		return ps
	}
	ps.width, ps.height = page.Width, page.Height
	ps.fragments = page.Fragments
	ps.rules = page.Rules
	ps.hasText = page.HasText()

	links, err := p.reader.Links(n)
	if err != nil {
		p.warn(res, n, "reading links: %v", err)
	}
	ps.links = links
	return ps
}

// loadText replaces the text layer with OCR output where the strategy asks
// for it. Only cancellation is returned as an error.
func (p *Partitioner) loadText(ctx context.Context, ps *pageState, res *Result, recognizer *ocr.Recognizer) error {
	needOCR := res.Strategy == StrategyOCROnly || (res.Strategy == StrategyHiRes && !ps.hasText)
	if !needOCR {
		if !ps.hasText {
			p.warn(res, ps.number, "no text layer; the %s strategy does not run OCR", res.Strategy)
		}
		return nil
	}

	ps.fragments = nil
	if recognizer == nil {
		p.warn(res, ps.number, "OCR unavailable: %v", ocr.ErrOCRNotEnabled)
		return nil
	}

	fragments, err := recognizer.Page(ctx, p.path, ps.number, ps.height)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		p.warn(res, ps.number, "OCR failed: %v", err)
		return nil
	}

	ps.fragments = fragments
	ps.ocr = true
	p.logger.Debug("partition: page recognized",
		"page", ps.number, "words", len(fragments), "confidence", ocr.MeanConfidence(fragments))
	return nil
}
