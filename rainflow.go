// Package rainflow simulates liquid droplets running down a vertical pane
// and flowing around rectangular obstacles such as rendered text.
//
// A Simulation owns every droplet and the obstacle index. The host calls
// Step once per frame, feeds obstacle rectangles through SetObstacles and
// draws droplets through a Surface. Nothing in this package blocks,
// schedules itself or spawns goroutines.
package rainflow

import "math"

// Vec is a 2D vector in simulation units.
type Vec struct {
	X, Y float64
}

// Len returns the length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rect is an axis-aligned rectangle in simulation units.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64
}

func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Inflate grows r by dx on the left and right and by dy on the top and bottom.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, W: r.W + 2*dx, H: r.H + 2*dy}
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Distance returns the distance from the point to the nearest point of r,
// which is 0 for points inside.
func (r Rect) Distance(x, y float64) float64 {
	dx := math.Max(math.Max(r.X-x, 0), x-r.Right())
	dy := math.Max(math.Max(r.Y-y, 0), y-r.Bottom())
	return math.Hypot(dx, dy)
}

// IntersectsCircle reports whether a circle overlaps r.
func (r Rect) IntersectsCircle(cx, cy, radius float64) bool {
	closestX := math.Max(r.X, math.Min(cx, r.Right()))
	closestY := math.Max(r.Y, math.Min(cy, r.Bottom()))
	dx := closestX - cx
	dy := closestY - cy
	return dx*dx+dy*dy < radius*radius
}
