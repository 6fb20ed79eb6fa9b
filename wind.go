package rainflow

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Wind and clustering run on their own cadence, in baseline frames.
const (
	windInterval    = 6   // 100 ms
	clusterInterval = 120 // 2 s
	clusterChance   = 0.1
	gustDepth       = 0.5
	gustFrequency   = 0.05
)

// gusts modulates the configured wind strength with 1D Perlin noise so the
// wind rises and falls instead of pushing at a constant rate.
type gusts struct {
	noise *perlin.Perlin
	t     float64
	acc   float64
}

func newGusts(seed int64) *gusts {
	return &gusts{noise: perlin.NewPerlin(2, 2, 3, seed)}
}

// advance moves the gust clock by ts baseline frames and reports how many
// wind impulses are due.
func (g *gusts) advance(ts float64) int {
	g.t += ts
	g.acc += ts
	n := int(g.acc / windInterval)
	g.acc -= float64(n) * windInterval
	return n
}

// strength returns base scaled by the current gust factor.
func (g *gusts) strength(base float64) float64 {
	f := 1 + gustDepth*g.noise.Noise1D(g.t*gustFrequency)
	return math.Max(0, base*f)
}

// ApplyWind pushes every droplet except splashes once. Small droplets are
// pushed harder, the horizontal component dominates.
func (s *Simulation) ApplyWind(strength, direction float64) {
	if strength <= 0 {
		return
	}
	cos, sin := math.Cos(direction), math.Sin(direction)
	for _, d := range s.store.Droplets() {
		if d.Killed || d.IsSplash || d.R <= 0 {
			continue
		}
		inf := math.Min(1, strength/d.R)
		d.MomentumX += cos * inf
		d.Momentum += sin * inf * 0.3
		d.clampVelocity(s.cfg.MaxVelocity)
	}
}

// updateWeather applies wind impulses and natural clustering for one step.
func (s *Simulation) updateWeather(ts float64) {
	for n := s.gusts.advance(ts); n > 0; n-- {
		if s.cfg.WindStrength > 0 {
			s.ApplyWind(s.gusts.strength(s.cfg.WindStrength), s.cfg.WindDirection)
		}
	}

	if !s.cfg.NaturalClustering || !s.cfg.Raining {
		s.clusterAcc = 0
		return
	}
	s.clusterAcc += ts
	for s.clusterAcc >= clusterInterval {
		s.clusterAcc -= clusterInterval
		if s.chance(clusterChance) {
			w, h := s.Bounds()
			s.Inject(s.random(0, w), s.random(0, h*0.3), s.random(0.5, 2))
		}
	}
}
