package rainflow

// Surface is the host's droplet canvas. The simulation draws retained
// droplets on it and reports residue effects: moved droplets wipe the
// residue under them, rain leaves tiny static speckles, and a clear fades
// the whole layer.
type Surface interface {
	DrawDroplet(d *Droplet)
	Wipe(x, y, r float64)
	Speckle(x, y, r float64)
	Fade(alpha float64)
}

type nopSurface struct{}

func (nopSurface) DrawDroplet(*Droplet)    {}
func (nopSurface) Wipe(x, y, r float64)    {}
func (nopSurface) Speckle(x, y, r float64) {}
func (nopSurface) Fade(alpha float64)      {}

// Residue fade after a clear, in baseline frames.
const (
	fadeFrames = 50
	fadeAlpha  = 0.05
)

// updateResidue fades the residue layer while a clear is in progress and
// sprinkles new speckles while it rains.
func (s *Simulation) updateResidue(ts float64) {
	if s.fadeLeft > 0 {
		s.fadeLeft -= ts
		s.surface.Fade(fadeAlpha * ts)
	}
	if !s.cfg.Raining || s.cfg.DropletsRate <= 0 {
		return
	}
	w, h := s.Bounds()
	s.speckleAcc += s.cfg.DropletsRate * ts * s.areaScale
	for ; s.speckleAcc >= 1; s.speckleAcc-- {
		r := s.randomBiased(s.cfg.DropletsSize[0], s.cfg.DropletsSize[1], square)
		s.surface.Speckle(s.random(0, w), s.random(0, h), r)
	}
}
