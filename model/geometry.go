package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox represents a bounding box in PDF user space
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two opposite corners
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	return BBox{X: x, Y: y, Width: math.Abs(p2.X - p1.X), Height: math.Abs(p2.Y - p1.Y)}
}

func (b BBox) Left() float64   { return b.X }
func (b BBox) Right() float64  { return b.X + b.Width }
func (b BBox) Bottom() float64 { return b.Y }
func (b BBox) Top() float64    { return b.Y + b.Height }

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Top() < other.Bottom() ||
		b.Bottom() > other.Top())
}

// Union returns the smallest box containing both boxes. A zero box is
// treated as empty.
func (b BBox) Union(other BBox) BBox {
	if b.IsZero() {
		return other
	}
	if other.IsZero() {
		return b
	}
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	right := math.Max(b.Right(), other.Right())
	top := math.Max(b.Top(), other.Top())
	return BBox{X: x, Y: y, Width: right - x, Height: top - y}
}

// Expand grows the box by margin on every side
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsZero reports whether every field is zero
func (b BBox) IsZero() bool {
	return b == BBox{}
}

// Coordinates converts the box to a four-corner polygon in a top-left origin
// space of the given page height. Corners run top-left, bottom-left,
// bottom-right, top-right.
func (b BBox) Coordinates(pageWidth, pageHeight float64, system CoordinateSystem) *Coordinates {
	top := pageHeight - b.Top()
	bottom := pageHeight - b.Bottom()
	return &Coordinates{
		Points: [][2]float64{
			{round2(b.Left()), round2(top)},
			{round2(b.Left()), round2(bottom)},
			{round2(b.Right()), round2(bottom)},
			{round2(b.Right()), round2(top)},
		},
		System:       system,
		LayoutWidth:  round2(pageWidth),
		LayoutHeight: round2(pageHeight),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Scale multiplies every coordinate by f
func (b BBox) Scale(f float64) BBox {
	return BBox{X: b.X * f, Y: b.Y * f, Width: b.Width * f, Height: b.Height * f}
}
