// Screen geometry for control widgets
package controls

import (
	"image"
	"math"
)

// Point is a position in frame pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Image converts the point to integer pixel coordinates.
func (p Point) Image() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Rect is an axis-aligned rectangle: origin plus size.
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Image converts r to an integer image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

// Contains reports whether p lies in the half-open rectangle
// [X, X+W) x [Y, Y+H).
func Contains(r Rect, p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W &&
		p.Y >= r.Y && p.Y < r.Y+r.H
}

// SliderValueAt maps the horizontal position of p on track to a value in
// [min, max]. track.W must not be zero.
func SliderValueAt(track Rect, p Point, min, max float64) float64 {
	if track.W == 0 {
		panic("controls: SliderValueAt on a zero-width track")
	}

	v := min + (p.X-track.X)/track.W*(max-min)
	return math.Max(min, math.Min(v, max))
}

// SliderHandlePosition is the inverse of SliderValueAt: the handle centre
// for value v, vertically centred on the track.
func SliderHandlePosition(track Rect, v, min, max float64) Point {
	y := track.Y + track.H/2
	if max == min {
		return Point{X: track.X, Y: y}
	}

	v = math.Max(min, math.Min(v, max))
	return Point{X: track.X + (v-min)/(max-min)*track.W, Y: y}
}
