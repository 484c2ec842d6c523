package partition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/tsawler/pdfextract/internal/command"
	"github.com/tsawler/pdfextract/model"
	"github.com/tsawler/pdfextract/ocr"
)

// ExportedImage is an image file written for a page
type ExportedImage struct {
	Page   int
	Path   string
	Format string
	Width  int
	Height int
}

// ImageExporter writes the embedded images of a PDF with poppler's pdfimages
type ImageExporter struct {
	// Command is the pdfimages executable
	Command string
	Runner  command.Runner
}

// NewImageExporter creates an exporter
func NewImageExporter(runner command.Runner) *ImageExporter {
	return &ImageExporter{Command: "pdfimages", Runner: runner}
}

// pdfimages -p names files <root>-<page>-<serial>.<ext>
var exportedName = regexp.MustCompile(`^img-(\d+)-(\d+)\.(png|jpg|ppm|pbm|pgm|tif|jp2|jb2e)$`)

// Export writes the images of pages into dir as figure-<page>-<n>.<ext>,
// numbering from 1 on each page.
func (x *ImageExporter) Export(ctx context.Context, pdfPath, dir string, pages []int) ([]ExportedImage, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	wanted := make(map[int]bool, len(pages))
	first, last := pages[0], pages[0]
	for _, n := range pages {
		wanted[n] = true
		first = min(first, n)
		last = max(last, n)
	}

	tmp, err := os.MkdirTemp(dir, ".pdfimages-*")
	if err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	args := []string{
		"-png", "-p",
		"-f", strconv.Itoa(first), "-l", strconv.Itoa(last),
		pdfPath, filepath.Join(tmp, "img"),
	}
	if _, err := x.Runner.Run(ctx, x.Command, args...); err != nil {
		return nil, fmt.Errorf("exporting images: %w", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		return nil, fmt.Errorf("reading exported images: %w", err)
	}

	type exported struct {
		page, serial int
		name, ext    string
	}
	var found []exported
	for _, e := range entries {
		m := exportedName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		page, _ := strconv.Atoi(m[1])
		serial, _ := strconv.Atoi(m[2])
		if wanted[page] {
			found = append(found, exported{page: page, serial: serial, name: e.Name(), ext: m[3]})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].page != found[j].page {
			return found[i].page < found[j].page
		}
		return found[i].serial < found[j].serial
	})

	var images []ExportedImage
	perPage := make(map[int]int)
	for _, f := range found {
		perPage[f.page]++
		target := filepath.Join(dir, fmt.Sprintf("figure-%d-%d.%s", f.page, perPage[f.page], f.ext))
		if err := os.Rename(filepath.Join(tmp, f.name), target); err != nil {
			return nil, fmt.Errorf("moving %s: %w", f.name, err)
		}
		img := ExportedImage{Page: f.page, Path: target, Format: f.ext}
		img.Width, img.Height = imageSize(target)
		images = append(images, img)
	}
	return images, nil
}

// imageSize reads the dimensions from an image header; zero when the
// format is not one Go decodes
func imageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// extractImages exports images with pdfimages, falling back to in-process
// decoding when pdfimages is missing or fails
func (p *Partitioner) extractImages(ctx context.Context, pages []*pageState, res *Result) error {
	if p.opts.ImageDir == "" {
		p.warn(res, 0, "image extraction requested without an image directory")
		return nil
	}

	numbers := make([]int, len(pages))
	byNumber := make(map[int]*pageState, len(pages))
	for i, ps := range pages {
		numbers[i] = ps.number
		byNumber[ps.number] = ps
	}

	exporter := NewImageExporter(p.runner)
	var images []ExportedImage
	if _, err := p.runner.LookPath(exporter.Command); err != nil {
		p.logger.Debug("partition: pdfimages not found, decoding images in process")
		images = p.decodeImages(pages, res)
	} else {
		images, err = exporter.Export(ctx, p.path, p.opts.ImageDir, numbers)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.warn(res, 0, "%v; decoding images in process", err)
			images = p.decodeImages(pages, res)
		}
	}

	for _, img := range images {
		if ps := byNumber[img.Page]; ps != nil {
			ps.images = append(ps.images, img)
		}
	}
	return nil
}

// decodeImages writes the images the PDF engine can decode itself
func (p *Partitioner) decodeImages(pages []*pageState, res *Result) []ExportedImage {
	var out []ExportedImage
	for _, ps := range pages {
		images, err := p.reader.Images(ps.number)
		if err != nil {
			p.warn(res, ps.number, "reading images: %v", err)
			continue
		}
		n := 0
		for _, img := range images {
			if !img.Decodable() {
				p.warn(res, ps.number, "image %s uses %v, which needs pdfimages", img.Name, img.Filters)
				continue
			}
			data, err := img.ToPNG()
			if err != nil {
				p.warn(res, ps.number, "converting image %s: %v", img.Name, err)
				continue
			}
			n++
			path := filepath.Join(p.opts.ImageDir, fmt.Sprintf("figure-%d-%d.png", ps.number, n))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				p.warn(res, ps.number, "writing image %s: %v", img.Name, err)
				continue
			}
			out = append(out, ExportedImage{
				Page:   ps.number,
				Path:   path,
				Format: "png",
				Width:  img.Width,
				Height: img.Height,
			})
		}
	}
	return out
}

// cropTables renders each page holding tables and saves one crop per table
func (p *Partitioner) cropTables(ctx context.Context, pages []*pageState, res *Result) error {
	if p.opts.ImageDir == "" {
		return nil
	}
	renderer := ocr.NewRenderer(p.runner, p.opts.OCRDPI)
	scale := float64(renderer.DPI) / 72

	for _, ps := range pages {
		if len(ps.tables) == 0 {
			continue
		}
		data, err := renderer.Render(ctx, p.path, ps.number)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.warn(res, ps.number, "table images unavailable: %v", err)
			continue
		}
		page, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			p.warn(res, ps.number, "table images unavailable: decoding render: %v", err)
			continue
		}

		ps.tableImage = make([]string, len(ps.tables))
		for i, t := range ps.tables {
			path := filepath.Join(p.opts.ImageDir, fmt.Sprintf("table-%d-%d.png", ps.number, i+1))
			if err := writeCrop(page, pixelRect(t.BBox, ps.height, scale), path); err != nil {
				p.warn(res, ps.number, "table image %d: %v", i+1, err)
				continue
			}
			ps.tableImage[i] = path
		}
	}
	return nil
}

// pixelRect maps a box in PDF points to pixels of a render with a top-left
// origin
func pixelRect(b model.BBox, pageHeight, scale float64) image.Rectangle {
	return image.Rect(
		int(b.Left()*scale),
		int((pageHeight-b.Top())*scale),
		int(b.Right()*scale+0.5),
		int((pageHeight-b.Bottom())*scale+0.5),
	)
}

func writeCrop(img image.Image, r image.Rectangle, path string) error {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return fmt.Errorf("table lies outside the rendered page")
	}
	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return fmt.Errorf("rendered page does not support cropping")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sub.SubImage(r)); err != nil {
		return fmt.Errorf("encoding crop: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
