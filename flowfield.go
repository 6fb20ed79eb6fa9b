package rainflow

import "math"

// FlowKind classifies a flow vector by how close it is to its obstacle.
type FlowKind uint8

const (
	FlowNormal     FlowKind = iota // outside any noticeable influence
	FlowDeflection                 // touching the obstacle, pushed away radially
	FlowAround                     // near the obstacle, guided along its edges
	FlowChannel                    // below the obstacle, converging into a stream
)

func (k FlowKind) String() string {
	switch k {
	case FlowDeflection:
		return "deflection"
	case FlowAround:
		return "flow"
	case FlowChannel:
		return "channel"
	default:
		return "normal"
	}
}

// FlowVector is the deflection a droplet receives at one lattice point.
type FlowVector struct {
	X, Y     float64
	Strength float64
	Kind     FlowKind
}

// defaultFlow is returned for positions the field does not cover.
var defaultFlow = FlowVector{X: 0, Y: 1, Strength: 0, Kind: FlowNormal}

// FlowField is a discretized vector field around one obstacle.
// It is immutable once built.
type FlowField struct {
	resolution float64
	vectors    map[cellKey]FlowVector
}

// flowParams carries the thresholds used to classify lattice points.
type flowParams struct {
	resolution float64
	margin     float64
	near       float64
	far        float64
}

// newFlowField samples the lattice spanning area grown by the margin and
// classifies every point against the solid rectangle.
func newFlowField(solid, area Rect, p flowParams) *FlowField {
	f := &FlowField{
		resolution: p.resolution,
		vectors:    make(map[cellKey]FlowVector),
	}
	if solid.W <= 0 || solid.H <= 0 {
		return f
	}
	for x := area.X - p.margin; x < area.Right()+p.margin; x += p.resolution {
		for y := area.Y - p.margin; y < area.Bottom()+p.margin; y += p.resolution {
			f.vectors[cellOf(x, y, p.resolution)] = flowVectorAt(x, y, solid, p)
		}
	}
	return f
}

// Len returns the number of lattice points stored.
func (f *FlowField) Len() int {
	return len(f.vectors)
}

// Each calls fn with the corner of every lattice cell and its vector, in
// no particular order.
func (f *FlowField) Each(fn func(x, y float64, v FlowVector)) {
	if f == nil {
		return
	}
	for k, v := range f.vectors {
		fn(float64(k.X)*f.resolution, float64(k.Y)*f.resolution, v)
	}
}

// At returns the vector of the lattice point containing (x, y), or a unit
// downward vector with no strength if the field does not reach there.
func (f *FlowField) At(x, y float64) FlowVector {
	if f == nil || f.resolution <= 0 {
		return defaultFlow
	}
	if v, ok := f.vectors[cellOf(x, y, f.resolution)]; ok {
		return v
	}
	return defaultFlow
}

// flowVectorAt classifies a single sample point.
func flowVectorAt(x, y float64, solid Rect, p flowParams) FlowVector {
	cx, cy := solid.CenterX(), solid.CenterY()
	dx := x - cx
	dy := y - cy
	edge := solid.Distance(x, y)

	switch {
	case edge < p.near:
		angle := math.Atan2(dy, dx)
		strength := math.Max(0.8, 1.2-edge/20)
		return FlowVector{
			X:        math.Cos(angle) * strength,
			Y:        math.Sin(angle)*strength + 0.6,
			Strength: strength,
			Kind:     FlowDeflection,
		}

	case edge < p.far:
		strength := 0.4 + (p.far-edge)/p.far*0.4
		var angle float64
		if math.Abs(dx) > math.Abs(dy) {
			angle = math.Pi / 6
			if dx < 0 {
				angle = -angle
			}
		} else {
			angle = math.Pi / 2
			if dy < 0 {
				angle = -angle
			}
		}
		return FlowVector{
			X:        math.Cos(angle) * strength,
			Y:        math.Sin(angle)*strength + 0.8,
			Strength: strength,
			Kind:     FlowAround,
		}

	case y > solid.Bottom() && math.Abs(dx) < solid.W*0.7:
		strength := math.Max(0, 1-math.Abs(dx)/(solid.W*0.5))
		return FlowVector{
			X:        -dx * 0.1 * strength,
			Y:        1.2 + strength*0.5,
			Strength: strength,
			Kind:     FlowChannel,
		}
	}

	v := FlowVector{X: 0, Y: 1, Strength: 0.1, Kind: FlowNormal}
	if dist := math.Hypot(dx, dy); dist > 0 {
		v.X = dx * 0.05 / dist
	}
	return v
}
