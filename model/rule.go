package model

import "math"

// Rule is a straight ruling line on a page, typically a table border
type Rule struct {
	Start Point
	End   Point
}

// IsHorizontal reports whether the rule runs left to right within tolerance
func (r Rule) IsHorizontal(tolerance float64) bool {
	return math.Abs(r.Start.Y-r.End.Y) <= tolerance && math.Abs(r.End.X-r.Start.X) > tolerance
}

// IsVertical reports whether the rule runs top to bottom within tolerance
func (r Rule) IsVertical(tolerance float64) bool {
	return math.Abs(r.Start.X-r.End.X) <= tolerance && math.Abs(r.End.Y-r.Start.Y) > tolerance
}

// Length returns the Euclidean length of the rule
func (r Rule) Length() float64 {
	dx := r.End.X - r.Start.X
	dy := r.End.Y - r.Start.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RulesFromRect converts a drawn rectangle into rules. Thin rectangles are a
// single rule; larger rectangles contribute their four edges.
func RulesFromRect(box BBox, thickness float64) []Rule {
	switch {
	case box.Height <= thickness && box.Width > thickness:
		y := box.Y + box.Height/2
		return []Rule{{Start: Point{box.Left(), y}, End: Point{box.Right(), y}}}
	case box.Width <= thickness && box.Height > thickness:
		x := box.X + box.Width/2
		return []Rule{{Start: Point{x, box.Bottom()}, End: Point{x, box.Top()}}}
	case box.Width <= thickness && box.Height <= thickness:
		return nil
	}
	return []Rule{
		{Start: Point{box.Left(), box.Top()}, End: Point{box.Right(), box.Top()}},
		{Start: Point{box.Left(), box.Bottom()}, End: Point{box.Right(), box.Bottom()}},
		{Start: Point{box.Left(), box.Bottom()}, End: Point{box.Left(), box.Top()}},
		{Start: Point{box.Right(), box.Bottom()}, End: Point{box.Right(), box.Top()}},
	}
}
