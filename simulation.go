package rainflow

import (
	"math"
	"math/rand"
	"time"
)

// Physics constants
const (
	AirResistance  = 0.98 // per-step drag on both momentum components
	MaxMergeBoost  = 40.0 // upper bound of the momentum a merge can give
	MergeLookahead = 70   // droplets ahead in scan order checked for merging
	referenceArea  = 1024 * 768
	maxClearDelay  = 72 // in baseline frames (1.2 s)
)

// Stats counts simulation events since construction.
type Stats struct {
	Spawned  int
	Retired  int
	Merges   int
	Impacts  int
	Flows    int
	Splashes int
	Trails   int
}

// Simulation holds the droplet population, the obstacle index and every
// tunable. It is not safe for concurrent use; drive it from one goroutine.
type Simulation struct {
	Width, Height float64 // Pane size in pixels
	Scale         float64 // Pixels per simulation unit

	// OnCollision, if set, is called for every obstacle collision before
	// the droplet is resolved.
	OnCollision func(d *Droplet, c Collision)

	cfg       Config
	store     *Store
	index     *Index
	surface   Surface
	gusts     *gusts
	stats     Stats
	areaScale float64

	fadeLeft   float64
	speckleAcc float64
	clusterAcc float64

	rng *rand.Rand
}

// New creates a simulation for a width x height pixel pane where scale
// pixels make one simulation unit.
func New(width, height, scale float64, cfg Config) *Simulation {
	if scale <= 0 {
		scale = 1
	}
	cfg.sanitize()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulation{
		Scale:   scale,
		cfg:     cfg,
		surface: nopSurface{},
		gusts:   newGusts(seed),
		rng:     rand.New(rand.NewSource(seed)),
		store:   NewStore(0),
		index:   NewIndex(nil, cfg),
	}
	s.Resize(width, height)
	return s
}

// populationLimit is the configured cap scaled by the pane area.
func (s *Simulation) populationLimit() int {
	return int(float64(s.cfg.MaxDrops) * s.areaScale)
}

// Bounds returns the pane size in simulation units.
func (s *Simulation) Bounds() (w, h float64) {
	return s.Width / s.Scale, s.Height / s.Scale
}

// AreaScale returns the factor applied to rates and the population cap.
func (s *Simulation) AreaScale() float64 {
	return s.areaScale
}

// Config returns the current parameters.
func (s *Simulation) Config() Config {
	return s.cfg
}

// SetConfig replaces the parameters. Existing droplets are kept, except that
// the next step retires the smallest ones if the population cap went down.
// Callers switching weather usually follow with Clear.
func (s *Simulation) SetConfig(cfg Config) {
	cfg.sanitize()
	s.cfg = cfg
	s.store.SetLimit(s.populationLimit())
}

// Resize changes the pane size. Droplets keep their positions; those now
// outside the pane are retired by the next step, as are the smallest ones
// if the population cap went down.
func (s *Simulation) Resize(width, height float64) {
	s.Width = math.Max(width, 0)
	s.Height = math.Max(height, 0)
	s.areaScale = math.Sqrt(s.Width * s.Height / s.Scale / referenceArea)
	s.store.SetLimit(s.populationLimit())
}

// SetSurface sets the canvas droplets are drawn on. Nil disables drawing.
func (s *Simulation) SetSurface(surface Surface) {
	if surface == nil {
		surface = nopSurface{}
	}
	s.surface = surface
}

// Store returns the droplet store.
func (s *Simulation) Store() *Store {
	return s.store
}

// Droplets returns the live droplets.
func (s *Simulation) Droplets() []*Droplet {
	return s.store.Droplets()
}

// Index returns the current obstacle index.
func (s *Simulation) Index() *Index {
	return s.index
}

// Stats returns the event counters.
func (s *Simulation) Stats() Stats {
	return s.stats
}

// SetObstacles rebuilds the obstacle index from regions given in
// simulation units. The previous index stays in use until the new one is
// complete.
func (s *Simulation) SetObstacles(regions []Region) {
	s.index = NewIndex(regions, s.cfg)
}

// Refresh rebuilds the obstacle index from p.
func (s *Simulation) Refresh(p ObstacleProvider) {
	s.SetObstacles(p.Obstacles())
}

// Spawn adds d to the population. It returns nil if the population is at
// its cap or d has no radius.
func (s *Simulation) Spawn(d Droplet) *Droplet {
	nd := s.store.Add(d)
	if nd != nil {
		s.stats.Spawned++
	}
	return nd
}

// ApplyExternalImpulse pushes droplets within radius of (x, y) away from
// it, harder the closer they are.
func (s *Simulation) ApplyExternalImpulse(x, y, radius, strength float64) {
	if radius <= 0 || strength == 0 {
		return
	}
	for _, d := range s.store.Droplets() {
		if d.Killed {
			continue
		}
		dx := d.X - x
		dy := d.Y - y
		dist := math.Hypot(dx, dy)
		if dist >= radius || dist == 0 {
			continue
		}
		inf := (radius - dist) / radius
		d.MomentumX += dx / dist * inf * strength
		d.Momentum += dy / dist * inf * strength * 0.3
		d.clampVelocity(s.cfg.MaxVelocity)
	}
}

// Inject spawns a burst of droplets around (x, y). Intensity scales both
// the number of droplets and their speed.
func (s *Simulation) Inject(x, y, intensity float64) {
	intensity = math.Max(intensity, 0)
	count := 3 + int(intensity*3)
	spread := 15 + intensity*10

	for i := 0; i < count; i++ {
		angle := math.Pi*2*float64(i)/float64(count) + s.random(-0.5, 0.5)
		dist := s.random(0, spread)

		d := NewDroplet(
			x+math.Cos(angle)*dist,
			y+math.Sin(angle)*dist*0.5,
			s.random(s.cfg.MinR, s.cfg.MaxR*0.8),
		)
		d.Momentum = s.random(2, 6) * intensity
		d.MomentumX = s.random(-2, 2)
		d.SpreadX = 0.3
		d.SpreadY = 0.3
		d.clampVelocity(s.cfg.MaxVelocity)
		if s.Spawn(d) == nil {
			return
		}
	}
}

// Clear makes every live droplet shrink away after a random delay of up to
// 1.2 s and starts fading the residue layer.
func (s *Simulation) Clear() {
	for _, d := range s.store.Droplets() {
		d.clearDelay = s.random(0, maxClearDelay)
		d.clearShrink = 0.1 + s.random(0, 0.5)
	}
	s.fadeLeft = fadeFrames
}

// Step advances the simulation by timeScale baseline frames.
func (s *Simulation) Step(timeScale float64) {
	if math.IsNaN(timeScale) {
		return
	}
	ts := clamp(timeScale, 0, MaxTimeScale) * s.cfg.GlobalTimeScale

	s.updateResidue(ts)
	s.updateWeather(ts)

	s.store.begin()
	s.rain(ts)
	w, _ := s.Bounds()
	s.store.sortScanOrder(w)

	drops := s.store.Droplets()
	survivors := make([]*Droplet, 0, len(drops))
	for i, d := range drops {
		if d.Killed {
			continue
		}
		moved := s.update(d, ts)
		if !d.Killed && (moved || d.IsNew) {
			s.merge(d, drops[i+1:min(i+MergeLookahead, len(drops))], ts)
		}
		d.IsNew = false
		s.decay(d, ts)

		if d.Killed {
			continue
		}
		survivors = append(survivors, d)
		if moved && s.cfg.DropletsRate > 0 {
			s.surface.Wipe(d.X, d.Y, d.R*s.cfg.DropletsCleaningRadiusMultiplier)
		}
		s.surface.DrawDroplet(d)
	}

	s.stats.Retired += len(drops) - len(survivors) + s.store.commit(survivors)
}

// rain spawns new droplets at random positions of the pane.
func (s *Simulation) rain(ts float64) {
	if !s.cfg.Raining {
		return
	}
	w, h := s.Bounds()
	limit := s.cfg.RainLimit * ts * s.areaScale
	p := s.cfg.RainChance * ts * s.areaScale
	for count := 0; float64(count) < limit && s.chance(p); count++ {
		r := s.randomBiased(s.cfg.MinR, s.cfg.MaxR, cubic)
		d := NewDroplet(
			s.random(0, w),
			s.random(h*s.cfg.SpawnArea[0], h*s.cfg.SpawnArea[1]),
			r,
		)
		d.Momentum = 1 + (r-s.cfg.MinR)*0.1 + s.random(0, 2)
		d.SpreadX = 1.5
		d.SpreadY = 1.5
		if s.Spawn(d) == nil {
			return
		}
	}
}

// update runs obstacle collision, forces, shrinking, trail emission and
// integration for d. It reports whether d moved.
func (s *Simulation) update(d *Droplet, ts float64) bool {
	if s.cfg.ObstacleCollision {
		if c := s.index.Query(d.X, d.Y, d.R); c.Kind != CollisionNone {
			if s.OnCollision != nil {
				s.OnCollision(d, c)
			}
			s.resolve(d, c)
		}
	}

	d.Momentum *= AirResistance
	d.MomentumX *= AirResistance

	// Larger droplets are more likely to overcome surface tension.
	gravity := math.Min(1, d.R/s.cfg.MaxR)
	if s.chance((d.R - s.cfg.MinR*s.cfg.DropFallMultiplier) * (0.1 / s.cfg.deltaR()) * ts) {
		d.Momentum += s.random(0, d.R/s.cfg.MaxR*4) * gravity
	}

	s.shrink(d, ts)
	if d.Killed {
		return false
	}

	if s.cfg.Raining && !d.IsSplash {
		s.trail(d, ts)
	}

	d.SpreadX *= math.Pow(0.5, ts)
	d.SpreadY *= math.Pow(0.8, ts)

	moved := d.Momentum > 0
	if moved {
		d.Y += d.Momentum * s.cfg.GlobalTimeScale
		d.X += d.MomentumX * s.cfg.GlobalTimeScale
	}

	// Resting droplets are checked too: a resize can leave them outside.
	w, h := s.Bounds()
	if d.Y > h+d.R || d.X < -d.R || d.X > w+d.R {
		d.Killed = true
	}
	return moved
}

// shrink accumulates and applies the shrink rate, retiring d once its
// radius is gone.
func (s *Simulation) shrink(d *Droplet, ts float64) {
	if d.clearShrink > 0 {
		d.clearDelay -= ts
		if d.clearDelay <= 0 {
			d.Shrink = math.Max(d.Shrink, d.clearShrink)
			d.clearShrink = 0
		}
	}
	if s.cfg.AutoShrink && d.R <= s.cfg.MinR && s.chance(0.05*ts) {
		d.Shrink += 0.01
	}
	if d.IsSplash {
		d.Shrink += 0.02 * ts
		d.Momentum++
	}
	if d.IsTrail {
		d.SpreadY *= 1.02
	}

	d.R -= d.Shrink * ts
	if d.R <= 0 {
		d.R = 0
		d.Killed = true
	}
}

// trail emits a small droplet behind d once it has travelled far enough.
func (s *Simulation) trail(d *Droplet, ts float64) {
	d.LastSpawn += d.Momentum * ts * s.cfg.TrailRate
	if d.LastSpawn <= d.NextSpawn {
		return
	}

	scale := math.Min(1, d.Momentum/10)
	td := NewDroplet(
		d.X+s.random(-d.R, d.R)*0.1,
		d.Y-d.R*0.01,
		d.R*s.random(s.cfg.TrailScaleRange[0], s.cfg.TrailScaleRange[1])*scale,
	)
	td.SpreadY = d.Momentum * 0.1
	td.MomentumX = d.MomentumX * 0.3
	td.Momentum = d.Momentum * 0.7
	td.Parent = d.ID
	if s.Spawn(td) == nil {
		return
	}
	s.stats.Trails++

	d.R *= math.Pow(0.97, ts)
	d.LastSpawn = 0
	d.NextSpawn = s.random(s.cfg.MinR, s.cfg.MaxR) -
		d.Momentum*2*s.cfg.TrailRate +
		(s.cfg.MaxR - d.R)
}

// merge lets d absorb smaller droplets among those following it in scan
// order. The reach grows with d's momentum.
func (s *Simulation) merge(d *Droplet, ahead []*Droplet, ts float64) {
	for _, o := range ahead {
		if o == d || o.Killed || d.R <= o.R || d.related(o) {
			continue
		}
		dx := o.X - d.X
		dy := o.Y - d.Y
		reach := (d.R + o.R) * (s.cfg.CollisionRadius + d.Momentum*s.cfg.CollisionRadiusIncrease*ts)
		if math.Hypot(dx, dy) >= reach {
			continue
		}

		a1 := math.Pi * d.R * d.R
		a2 := math.Pi * o.R * o.R
		r := math.Min(math.Sqrt((a1+a2*0.8)/math.Pi), s.cfg.MaxR)

		d.R = r
		d.MomentumX += dx * 0.1
		d.SpreadX = 0
		d.SpreadY = 0
		d.Momentum = math.Max(o.Momentum, math.Min(MaxMergeBoost,
			d.Momentum+r*s.cfg.CollisionBoostMultiplier+s.cfg.CollisionBoost))
		o.Killed = true
		s.stats.Merges++
	}
}

// decay bleeds off momentum; slow droplets stop quickly.
func (s *Simulation) decay(d *Droplet, ts float64) {
	d.Momentum -= math.Max(1, s.cfg.MinR*0.5-d.Momentum) * 0.1 * ts
	if d.Momentum < 0 {
		d.Momentum = 0
	}
	d.MomentumX *= math.Pow(0.8, ts)
}
