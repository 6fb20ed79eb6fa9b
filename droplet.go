package rainflow

// Droplet is a single simulated drop of liquid.
//
// Momentum is the vertical speed (positive is down), MomentumX the
// horizontal one. SpreadX and SpreadY are visual elongation factors that
// relax toward zero. Parent holds the ID of the droplet that emitted this
// one, 0 for none; it only excludes the pair from merging.
type Droplet struct {
	ID        uint64  `msgpack:"id"`
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	R         float64 `msgpack:"r"`
	SpreadX   float64 `msgpack:"sx"`
	SpreadY   float64 `msgpack:"sy"`
	Momentum  float64 `msgpack:"m"`
	MomentumX float64 `msgpack:"mx"`
	LastSpawn float64 `msgpack:"ls"`
	NextSpawn float64 `msgpack:"ns"`
	Shrink    float64 `msgpack:"shrink"`
	Parent    uint64  `msgpack:"parent"`
	IsNew     bool    `msgpack:"new"`
	Killed    bool    `msgpack:"killed"`
	IsSplash  bool    `msgpack:"splash"`
	IsTrail   bool    `msgpack:"trail"`

	// Pending clear: once clearDelay runs out, Shrink becomes clearShrink.
	clearDelay  float64
	clearShrink float64
}

// NewDroplet returns a fresh droplet at (x, y) with radius r.
func NewDroplet(x, y, r float64) Droplet {
	return Droplet{X: x, Y: y, R: r, IsNew: true}
}

// Velocity returns the combined momentum vector.
func (d *Droplet) Velocity() Vec {
	return Vec{X: d.MomentumX, Y: d.Momentum}
}

// clampVelocity scales both momentum components so that their combined
// magnitude does not exceed limit.
func (d *Droplet) clampVelocity(limit float64) {
	v := d.Velocity().Len()
	if v > limit && v > 0 {
		s := limit / v
		d.MomentumX *= s
		d.Momentum *= s
	}
}

// related reports whether one droplet emitted the other.
func (d *Droplet) related(o *Droplet) bool {
	return (d.Parent != 0 && d.Parent == o.ID) || (o.Parent != 0 && o.Parent == d.ID)
}

// scanKey orders droplets row by row across a pane of the given width.
func (d *Droplet) scanKey(width float64) float64 {
	return d.Y*width + d.X
}
