package rainflow

import "math"

// random returns a value in [lo, hi).
func (s *Simulation) random(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// randomBiased returns a value in [lo, hi) drawn through bias, which maps
// [0, 1) onto itself. A cubic bias favours values close to lo.
func (s *Simulation) randomBiased(lo, hi float64, bias func(float64) float64) float64 {
	return lo + bias(s.rng.Float64())*(hi-lo)
}

// chance returns true with probability p.
func (s *Simulation) chance(p float64) bool {
	return s.rng.Float64() < p
}

func cubic(n float64) float64  { return n * n * n }
func square(n float64) float64 { return n * n }

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
