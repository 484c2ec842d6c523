package tables

import (
	"math"
	"sort"

	"github.com/tsawler/pdfextract/model"
)

// GridDetector detects table grids from ruling lines
type GridDetector struct {
	// Tolerance for considering lines aligned (in points)
	AlignmentTolerance float64

	// Minimum number of aligned lines to form a grid axis
	MinAlignedLines int

	// Minimum line length to consider (in points)
	MinLineLength float64

	config Config
}

// NewGridDetector creates a new grid detector with default settings
func NewGridDetector() *GridDetector {
	return &GridDetector{
		AlignmentTolerance: 3.0,
		MinAlignedLines:    2,
		MinLineLength:      10.0,
		config:             DefaultConfig(),
	}
}

// Name returns the detector's identifier ("grid")
func (gd *GridDetector) Name() string {
	return "grid"
}

// Configure sets the detector configuration
func (gd *GridDetector) Configure(config Config) error {
	gd.config = config
	if config.AlignmentTolerance > 0 {
		gd.AlignmentTolerance = config.AlignmentTolerance
	}
	return nil
}

// Detect finds ruled tables and fills their cells from the page text
func (gd *GridDetector) Detect(page Page) []*model.Table {
	var tables []*model.Table
	for _, h := range gd.DetectFromRules(page.Rules) {
		t := h.Fill(page.Fragments)
		if validate(t, gd.config) {
			tables = append(tables, t)
		}
	}
	return tables
}

// GridHypothesis represents a potential table grid detected from lines
type GridHypothesis struct {
	// Bounding box of the grid
	BBox model.BBox

	// Horizontal line positions (Y coordinates, sorted descending)
	HorizontalLines []float64

	// Vertical line positions (X coordinates, sorted ascending)
	VerticalLines []float64

	// Confidence score (0-1)
	Confidence float64

	// Number of rows and columns
	Rows int
	Cols int

	// Whether the grid has complete borders
	HasTopBorder    bool
	HasBottomBorder bool
	HasLeftBorder   bool
	HasRightBorder  bool
}

// AlignedLineGroup represents a group of rules aligned on an axis
type AlignedLineGroup struct {
	// Position on the alignment axis (X for vertical lines, Y for horizontal)
	Position float64

	Rules []model.Rule

	// Span of the rules on the perpendicular axis
	MinExtent float64
	MaxExtent float64
}

// DetectFromRules finds one grid hypothesis per connected cluster of rules.
// Rules that neither touch nor cross belong to different tables.
func (gd *GridDetector) DetectFromRules(rules []model.Rule) []*GridHypothesis {
	var hypotheses []*GridHypothesis
	for _, component := range gd.connectedRules(rules) {
		var horizontals, verticals []model.Rule
		for _, r := range component {
			switch {
			case r.IsHorizontal(gd.AlignmentTolerance):
				horizontals = append(horizontals, r)
			case r.IsVertical(gd.AlignmentTolerance):
				verticals = append(verticals, r)
			}
		}
		if h := gd.detectFromLines(horizontals, verticals); h != nil {
			hypotheses = append(hypotheses, h)
		}
	}

	sort.Slice(hypotheses, func(i, j int) bool {
		return hypotheses[i].BBox.Top() > hypotheses[j].BBox.Top()
	})
	return hypotheses
}

// connectedRules groups rules whose boxes touch, using union-find
func (gd *GridDetector) connectedRules(rules []model.Rule) [][]model.Rule {
	var kept []model.Rule
	for _, r := range rules {
		if r.Length() >= gd.MinLineLength {
			kept = append(kept, r)
		}
	}

	parent := make([]int, len(kept))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	boxes := make([]model.BBox, len(kept))
	for i, r := range kept {
		boxes[i] = model.NewBBoxFromPoints(r.Start, r.End).Expand(gd.AlignmentTolerance)
	}
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if boxes[i].Intersects(boxes[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	groups := make(map[int][]model.Rule)
	var order []int
	for i, r := range kept {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], r)
	}

	out := make([][]model.Rule, 0, len(order))
	for _, root := range order {
		out = append(out, groups[root])
	}
	return out
}

func (gd *GridDetector) detectFromLines(horizontals, verticals []model.Rule) *GridHypothesis {
	if len(horizontals) < gd.MinAlignedLines || len(verticals) < gd.MinAlignedLines {
		return nil
	}

	hGroups := gd.groupAlignedLines(horizontals, true)
	vGroups := gd.groupAlignedLines(verticals, false)
	if len(hGroups) < gd.MinAlignedLines || len(vGroups) < gd.MinAlignedLines {
		return nil
	}

	return gd.findGrid(hGroups, vGroups)
}

// groupAlignedLines groups rules that are aligned on the same axis
func (gd *GridDetector) groupAlignedLines(rules []model.Rule, isHorizontal bool) []AlignedLineGroup {
	position := func(r model.Rule) float64 {
		if isHorizontal {
			return (r.Start.Y + r.End.Y) / 2
		}
		return (r.Start.X + r.End.X) / 2
	}

	sorted := make([]model.Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return position(sorted[i]) < position(sorted[j]) })

	var groups []AlignedLineGroup
	current := AlignedLineGroup{Position: position(sorted[0]), Rules: []model.Rule{sorted[0]}}
	for _, r := range sorted[1:] {
		pos := position(r)
		if pos-current.Position <= gd.AlignmentTolerance {
			current.Rules = append(current.Rules, r)
			n := float64(len(current.Rules))
			current.Position = (current.Position*(n-1) + pos) / n
			continue
		}
		finalizeGroup(&current, isHorizontal)
		groups = append(groups, current)
		current = AlignedLineGroup{Position: pos, Rules: []model.Rule{r}}
	}
	finalizeGroup(&current, isHorizontal)
	return append(groups, current)
}

// finalizeGroup calculates the extent of an aligned line group
func finalizeGroup(group *AlignedLineGroup, isHorizontal bool) {
	group.MinExtent = math.MaxFloat64
	group.MaxExtent = -math.MaxFloat64
	for _, r := range group.Rules {
		lo, hi := math.Min(r.Start.Y, r.End.Y), math.Max(r.Start.Y, r.End.Y)
		if isHorizontal {
			lo, hi = math.Min(r.Start.X, r.End.X), math.Max(r.Start.X, r.End.X)
		}
		group.MinExtent = math.Min(group.MinExtent, lo)
		group.MaxExtent = math.Max(group.MaxExtent, hi)
	}
}

// findGrid builds a grid hypothesis from aligned line groups
func (gd *GridDetector) findGrid(hGroups, vGroups []AlignedLineGroup) *GridHypothesis {
	gridLeft, gridRight := positionRange(vGroups)
	gridBottom, gridTop := positionRange(hGroups)
	if gridRight <= gridLeft || gridTop <= gridBottom {
		return nil
	}

	// Keep lines that span a significant portion of the grid
	relevantH := filterGroupsByExtent(hGroups, gridLeft, gridRight)
	relevantV := filterGroupsByExtent(vGroups, gridBottom, gridTop)
	if len(relevantH) < gd.MinAlignedLines || len(relevantV) < gd.MinAlignedLines {
		return nil
	}

	sort.Slice(relevantH, func(i, j int) bool { return relevantH[i].Position > relevantH[j].Position })
	sort.Slice(relevantV, func(i, j int) bool { return relevantV[i].Position < relevantV[j].Position })

	h := &GridHypothesis{
		BBox: model.BBox{
			X:      gridLeft,
			Y:      gridBottom,
			Width:  gridRight - gridLeft,
			Height: gridTop - gridBottom,
		},
		HorizontalLines: make([]float64, len(relevantH)),
		VerticalLines:   make([]float64, len(relevantV)),
		Rows:            len(relevantH) - 1,
		Cols:            len(relevantV) - 1,
	}
	for i, g := range relevantH {
		h.HorizontalLines[i] = g.Position
	}
	for i, g := range relevantV {
		h.VerticalLines[i] = g.Position
	}

	tol := gd.AlignmentTolerance
	h.HasTopBorder = math.Abs(h.HorizontalLines[0]-gridTop) < tol
	h.HasBottomBorder = math.Abs(h.HorizontalLines[len(h.HorizontalLines)-1]-gridBottom) < tol
	h.HasLeftBorder = math.Abs(h.VerticalLines[0]-gridLeft) < tol
	h.HasRightBorder = math.Abs(h.VerticalLines[len(h.VerticalLines)-1]-gridRight) < tol

	h.Confidence = gd.calculateConfidence(h, len(hGroups)+len(vGroups))

	if h.Rows <= 0 || h.Cols <= 0 {
		return nil
	}
	return h
}

func positionRange(groups []AlignedLineGroup) (lo, hi float64) {
	lo, hi = groups[0].Position, groups[0].Position
	for _, g := range groups[1:] {
		lo = math.Min(lo, g.Position)
		hi = math.Max(hi, g.Position)
	}
	return lo, hi
}

// filterGroupsByExtent keeps groups covering at least half of the extent
func filterGroupsByExtent(groups []AlignedLineGroup, minExtent, maxExtent float64) []AlignedLineGroup {
	var result []AlignedLineGroup
	required := (maxExtent - minExtent) * 0.5
	for _, g := range groups {
		if g.MaxExtent-g.MinExtent < required {
			continue
		}
		if math.Min(g.MaxExtent, maxExtent) > math.Max(g.MinExtent, minExtent) {
			result = append(result, g)
		}
	}
	return result
}

// calculateConfidence scores a grid from its size, regularity, borders and
// the share of line groups that made it into the grid
func (gd *GridDetector) calculateConfidence(h *GridHypothesis, totalGroups int) float64 {
	score := 0.0

	cells := h.Rows * h.Cols
	if cells >= 2 {
		score += 0.2
	}
	if cells >= 6 {
		score += 0.1
	}

	score += h.regularity() * 0.3

	border := 0.0
	for _, ok := range []bool{h.HasTopBorder, h.HasBottomBorder, h.HasLeftBorder, h.HasRightBorder} {
		if ok {
			border += 0.25
		}
	}
	score += border * 0.2

	if totalGroups > 0 {
		used := float64(len(h.HorizontalLines) + len(h.VerticalLines))
		score += math.Min(1, used/float64(totalGroups)) * 0.2
	}

	return math.Min(1.0, score)
}

// regularity measures how even the row heights and column widths are
func (h *GridHypothesis) regularity() float64 {
	rowScore := 1.0
	if h.Rows > 1 {
		heights := make([]float64, h.Rows)
		for i := range heights {
			heights[i] = h.HorizontalLines[i] - h.HorizontalLines[i+1]
		}
		rowScore = math.Max(0, 1-coefficientOfVariation(heights))
	}

	colScore := 1.0
	if h.Cols > 1 {
		widths := make([]float64, h.Cols)
		for i := range widths {
			widths[i] = h.VerticalLines[i+1] - h.VerticalLines[i]
		}
		colScore = math.Max(0, 1-coefficientOfVariation(widths))
	}

	return (rowScore + colScore) / 2
}

// coefficientOfVariation calculates CV (std dev / mean)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := 0.0
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))
	if m == 0 {
		return 0
	}

	v := 0.0
	for _, val := range values {
		diff := val - m
		v += diff * diff
	}
	v /= float64(len(values))

	return math.Sqrt(v) / m
}

// Fill assigns fragments to the grid's cells by their center point and
// returns the table. The first row is marked as the header.
func (h *GridHypothesis) Fill(fragments []model.Fragment) *model.Table {
	t := model.NewTable(h.Rows, h.Cols)
	t.BBox = h.BBox
	t.HasGrid = true
	t.Confidence = h.Confidence

	cellFragments := make([][][]model.Fragment, h.Rows)
	for r := range cellFragments {
		cellFragments[r] = make([][]model.Fragment, h.Cols)
	}

	for _, f := range fragments {
		c := f.BBox().Center()
		row := sort.Search(h.Rows, func(i int) bool { return c.Y >= h.HorizontalLines[i+1] })
		col := sort.Search(h.Cols, func(i int) bool { return c.X <= h.VerticalLines[i+1] })
		if row >= h.Rows || col >= h.Cols || c.Y > h.HorizontalLines[0] || c.X < h.VerticalLines[0] {
			continue
		}
		cellFragments[row][col] = append(cellFragments[row][col], f)
	}

	for r := 0; r < h.Rows; r++ {
		for c := 0; c < h.Cols; c++ {
			t.Rows[r][c] = model.Cell{
				Text: cellText(cellFragments[r][c]),
				BBox: model.BBox{
					X:      h.VerticalLines[c],
					Y:      h.HorizontalLines[r+1],
					Width:  h.VerticalLines[c+1] - h.VerticalLines[c],
					Height: h.HorizontalLines[r] - h.HorizontalLines[r+1],
				},
				IsHeader: r == 0,
			}
		}
	}
	return t
}
