package tables

import "github.com/tsawler/pdfextract/model"

func frag(text string, x, y, size float64) model.Fragment {
	return model.Fragment{
		Text:       text,
		X:          x,
		Y:          y,
		Width:      float64(len([]rune(text))) * size * 0.5,
		Height:     size,
		FontName:   "Helvetica",
		FontSize:   size,
		Confidence: 1,
	}
}

func hrule(y, x1, x2 float64) model.Rule {
	return model.Rule{Start: model.Point{X: x1, Y: y}, End: model.Point{X: x2, Y: y}}
}

func vrule(x, y1, y2 float64) model.Rule {
	return model.Rule{Start: model.Point{X: x, Y: y1}, End: model.Point{X: x, Y: y2}}
}

// gridRules draws a ruled table with the given row and column boundaries
func gridRules(ys, xs []float64) []model.Rule {
	var rules []model.Rule
	for _, y := range ys {
		rules = append(rules, hrule(y, xs[0], xs[len(xs)-1]))
	}
	for _, x := range xs {
		rules = append(rules, vrule(x, ys[len(ys)-1], ys[0]))
	}
	return rules
}

// peopleTable returns the fragments of a 3x2 table inside the grid
// ys = 700, 680, 660, 640 and xs = 100, 250, 400
func peopleTable() []model.Fragment {
	return []model.Fragment{
		frag("Name", 110, 685, 10), frag("Age", 260, 685, 10),
		frag("Alice", 110, 665, 10), frag("30", 260, 665, 10),
		frag("Bob", 110, 645, 10), frag("41", 260, 645, 10),
	}
}
