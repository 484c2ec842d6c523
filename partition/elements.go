package partition

import (
	"strings"

	"github.com/tsawler/pdfextract/layout"
	"github.com/tsawler/pdfextract/model"
)

// assemble orders the elements of every page and assigns IDs
func (p *Partitioner) assemble(pages []*pageState) []model.Element {
	var out []model.Element
	for i, ps := range pages {
		if i > 0 {
			out = append(out, model.NewElement(model.CategoryPageBreak, "", pages[i-1].number))
		}

		var headers, body, footers []model.Element
		for _, r := range ps.layout.Regions {
			e := p.regionElement(ps, r)
			switch r.Category {
			case model.CategoryHeader:
				headers = append(headers, e)
			case model.CategoryFooter:
				footers = append(footers, e)
			default:
				body = append(body, e)
			}
		}

		for ti, t := range ps.tables {
			e := p.tableElement(ps, t)
			if ti < len(ps.tableImage) {
				e.Metadata.ImagePath = ps.tableImage[ti]
			}
			body = insertByPosition(body, e)
		}
		for _, img := range ps.images {
			body = append(body, p.imageElement(img))
		}

		out = append(out, headers...)
		out = append(out, body...)
		out = append(out, footers...)
	}

	for i := range out {
		out[i].AssignID(i)
	}
	return out
}

// insertByPosition places e before the first positioned element that
// starts below its top edge
func insertByPosition(body []model.Element, e model.Element) []model.Element {
	top := e.BBox.Top()
	at := len(body)
	for i, b := range body {
		if !b.BBox.IsZero() && b.BBox.Top() < top {
			at = i
			break
		}
	}
	body = append(body, model.Element{})
	copy(body[at+1:], body[at:])
	body[at] = e
	return body
}

func (p *Partitioner) baseElement(ps *pageState, category model.Category, text string, box model.BBox) model.Element {
	e := model.NewElement(category, text, ps.number)
	e.BBox = box
	e.Metadata.Coordinates = p.coordinates(ps, box)
	if len(p.opts.Languages) > 0 {
		e.Metadata.Languages = append([]string(nil), p.opts.Languages...)
	}
	return e
}

func (p *Partitioner) regionElement(ps *pageState, r layout.Region) model.Element {
	e := p.baseElement(ps, r.Category, r.Text, r.BBox)

	if r.HasDepth {
		e.Metadata.SetDepth(r.Depth)
	}
	e.Metadata.Section = r.Section

	switch {
	case r.Category == model.CategoryTitle:
		e.Metadata.SetProbability(r.Confidence)
	case ps.ocr:
		e.Metadata.SetProbability(r.Block.Confidence())
	}

	fragments := r.Fragments()
	contents, tags := layout.Emphasis(fragments)
	for i := range contents {
		e.Metadata.AddEmphasis(contents[i], tags[i])
	}

	for _, link := range ps.links {
		if !link.BBox.Intersects(r.BBox) {
			continue
		}
		area := link.BBox.Expand(1)
		var words []string
		for _, f := range fragments {
			if area.Contains(f.BBox().Center()) {
				words = append(words, f.Text)
			}
		}
		if len(words) == 0 {
			continue
		}
		text := strings.Join(words, " ")
		e.Metadata.AddLink(text, link.URL, max(0, strings.Index(e.Text, text)))
	}
	return e
}

func (p *Partitioner) tableElement(ps *pageState, t *model.Table) model.Element {
	e := p.baseElement(ps, model.CategoryTable, t.Text(), t.BBox)
	e.Table = t
	e.Metadata.TextAsHTML = t.ToHTML()
	e.Metadata.SetProbability(t.Confidence)
	return e
}

func (p *Partitioner) imageElement(img ExportedImage) model.Element {
	e := model.NewElement(model.CategoryImage, "", img.Page)
	e.Image = &model.ImageData{
		Path:   img.Path,
		Format: img.Format,
		Width:  img.Width,
		Height: img.Height,
	}
	e.Metadata.ImagePath = img.Path
	if len(p.opts.Languages) > 0 {
		e.Metadata.Languages = append([]string(nil), p.opts.Languages...)
	}
	return e
}

// coordinates expresses box in PDF points, or in render pixels for
// recognized pages
func (p *Partitioner) coordinates(ps *pageState, box model.BBox) *model.Coordinates {
	if box.IsZero() {
		return nil
	}
	if ps.ocr {
		scale := float64(p.opts.OCRDPI) / 72
		return box.Scale(scale).Coordinates(ps.width*scale, ps.height*scale, model.PixelSpace)
	}
	return box.Coordinates(ps.width, ps.height, model.PointSpace)
}
