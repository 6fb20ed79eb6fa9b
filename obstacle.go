package rainflow

import "math"

// Region is a rectangle reported by the host, with a stable identity.
type Region struct {
	ID   int
	Rect Rect
}

// ObstacleProvider reports the current obstacle geometry.
type ObstacleProvider interface {
	Obstacles() []Region
}

// Obstacle is a region prepared for collision: Solid is its tight box,
// Influence the grown box inside which droplets start to feel its flow.
type Obstacle struct {
	Solid     Rect
	Influence Rect
	Source    Region
}

// CollisionKind tells how a droplet touches an obstacle.
type CollisionKind uint8

const (
	CollisionNone CollisionKind = iota
	CollisionSolid
	CollisionFlow
)

func (k CollisionKind) String() string {
	switch k {
	case CollisionSolid:
		return "solid"
	case CollisionFlow:
		return "flow"
	default:
		return "none"
	}
}

// Collision is the answer to an obstacle query.
type Collision struct {
	Kind     CollisionKind
	Obstacle int  // index into Index.Obstacles, -1 for none
	Bounds   Rect // solid box for solid hits, influence box for flow hits
	Normal   Vec  // solid hits only
	Flow     FlowVector
	Source   Region
}

var noCollision = Collision{Kind: CollisionNone, Obstacle: -1}

type cellKey struct {
	X, Y int
}

func cellOf(x, y, size float64) cellKey {
	return cellKey{X: int(math.Floor(x / size)), Y: int(math.Floor(y / size))}
}

// Bin lists the obstacles whose influence box overlaps a grid cell.
type Bin []int

// Index answers obstacle queries through a uniform grid and holds one flow
// field per obstacle. It is rebuilt wholesale and never mutated afterwards.
type Index struct {
	gridSize  float64
	obstacles []Obstacle
	fields    []*FlowField
	bins      map[cellKey]Bin
}

// NewIndex builds the grid and flow fields for regions.
func NewIndex(regions []Region, cfg Config) *Index {
	cfg.sanitize()
	ix := &Index{
		gridSize:  cfg.GridSize,
		obstacles: make([]Obstacle, 0, len(regions)),
		fields:    make([]*FlowField, 0, len(regions)),
		bins:      make(map[cellKey]Bin),
	}
	params := flowParams{
		resolution: cfg.FlowResolution,
		margin:     cfg.FlowMargin,
		near:       cfg.NearDistance,
		far:        cfg.FlowDistance,
	}
	for _, reg := range regions {
		ob := Obstacle{
			Solid:     reg.Rect,
			Influence: reg.Rect.Inflate(cfg.InfluencePadX, cfg.InfluencePadY),
			Source:    reg,
		}
		i := len(ix.obstacles)
		ix.obstacles = append(ix.obstacles, ob)
		ix.fields = append(ix.fields, newFlowField(ob.Solid, ob.Influence, params))
		ix.addToGrid(ob.Influence, i)
	}
	return ix
}

func (ix *Index) addToGrid(r Rect, i int) {
	lo := cellOf(r.X, r.Y, ix.gridSize)
	hi := cellOf(r.Right(), r.Bottom(), ix.gridSize)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			k := cellKey{X: x, Y: y}
			ix.bins[k] = append(ix.bins[k], i)
		}
	}
}

// Len returns the number of obstacles.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.obstacles)
}

// Obstacles returns the indexed obstacles in insertion order.
func (ix *Index) Obstacles() []Obstacle {
	if ix == nil {
		return nil
	}
	return ix.obstacles
}

// Field returns the flow field of obstacle i, or nil.
func (ix *Index) Field(i int) *FlowField {
	if ix == nil || i < 0 || i >= len(ix.fields) {
		return nil
	}
	return ix.fields[i]
}

// Query tests a circle against the obstacles registered in the grid cell
// holding its center. A solid hit returns at once; otherwise the first
// influence hit is returned. Obstacles only reaching the circle from a
// neighbouring cell are not considered.
func (ix *Index) Query(x, y, r float64) Collision {
	if ix == nil || len(ix.obstacles) == 0 {
		return noCollision
	}
	bin := ix.bins[cellOf(x, y, ix.gridSize)]
	flow := noCollision
	for _, i := range bin {
		ob := &ix.obstacles[i]
		if ob.Solid.IntersectsCircle(x, y, r) {
			return Collision{
				Kind:     CollisionSolid,
				Obstacle: i,
				Bounds:   ob.Solid,
				Normal:   surfaceNormal(x, y, r, ob.Solid),
				Source:   ob.Source,
			}
		}
		if flow.Kind == CollisionNone && ob.Influence.IntersectsCircle(x, y, r) {
			flow = Collision{
				Kind:     CollisionFlow,
				Obstacle: i,
				Bounds:   ob.Influence,
				Flow:     ix.fields[i].At(x, y),
				Source:   ob.Source,
			}
		}
	}
	return flow
}

// surfaceNormal picks the face of the box the circle penetrates least.
func surfaceNormal(x, y, r float64, b Rect) Vec {
	dx := x - b.CenterX()
	dy := y - b.CenterY()
	overlapX := b.W/2 + r - math.Abs(dx)
	overlapY := b.H/2 + r - math.Abs(dy)
	if overlapX < overlapY {
		if dx > 0 {
			return Vec{X: 1}
		}
		return Vec{X: -1}
	}
	if dy > 0 {
		return Vec{Y: 1}
	}
	return Vec{Y: -1}
}
