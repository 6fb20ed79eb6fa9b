package rainflow

import "math"

// Collision response constants.
const (
	hardImpactSpeed  = 12.0 // impact speed above which droplets bounce and splash
	restitutionScale = 0.6  // applied on top of Config.BounceRestitution
	surfaceGap       = 1.0  // distance kept from a surface after sliding
	sideGap          = 2.0
	splashRange      = 1.5 // horizontal splash spread for hard impacts
	dripRange        = 0.8 // and for gentle ones
	impactShrink     = 0.7
	dripShrink       = 0.9
	impactDampY      = 0.8
	impactDampX      = 0.85
	flowInfluenceR   = 15.0 // droplets this large feel the full flow
	streamMinSpeed   = 5.0  // channel streams only leave behind fast droplets
)

// resolve applies the response to a collision reported for d.
func (s *Simulation) resolve(d *Droplet, c Collision) {
	switch c.Kind {
	case CollisionSolid:
		s.stats.Impacts++
		s.resolveSolid(d, c)
	case CollisionFlow:
		s.stats.Flows++
		s.resolveFlow(d, c.Flow)
	}
}

func (s *Simulation) resolveSolid(d *Droplet, c Collision) {
	speed := d.Velocity().Len()

	if speed > hardImpactSpeed {
		s.bounce(d, c.Normal)
		if s.chance(s.cfg.SplashProbability) {
			s.splash(d, max(s.cfg.SplashIntensity, 1), splashRange, impactShrink)
		}
	} else {
		s.slide(d, c.Normal, c.Bounds)
		if s.chance(s.cfg.SplashProbability * 0.5) {
			s.splash(d, 1, dripRange, dripShrink)
		}
	}

	d.SpreadX = math.Max(d.SpreadX, 0.8)
	d.SpreadY = math.Max(d.SpreadY, 0.6)

	d.Momentum *= impactDampY
	d.MomentumX *= impactDampX
	d.clampVelocity(s.cfg.MaxVelocity)
}

// bounce reflects the momentum about the surface normal, losing energy.
func (s *Simulation) bounce(d *Droplet, n Vec) {
	restitution := s.cfg.BounceRestitution * restitutionScale
	dot := d.MomentumX*n.X + d.Momentum*n.Y

	d.MomentumX -= 2 * dot * n.X * restitution
	d.Momentum -= 2 * dot * n.Y * restitution

	d.MomentumX += s.random(-1, 1)
	d.Momentum += s.random(-0.5, 0.5)
}

// slide turns the fall into a flow along the face that was hit and puts
// the droplet just outside that face.
func (s *Simulation) slide(d *Droplet, n Vec, b Rect) {
	friction := s.cfg.SlideFriction

	switch {
	case n.Y < 0:
		d.Y = b.Y - d.R - surfaceGap
		dir := -1.0
		if d.X > b.CenterX() {
			dir = 1
		}
		flow := math.Abs(d.Momentum) * 0.6
		d.MomentumX = dir * flow * (1 - friction)
		d.Momentum = math.Abs(d.Momentum) * 0.2
		d.SpreadY = math.Max(d.SpreadY, 0.5)

	case n.Y > 0:
		d.Y = b.Bottom() + d.R + surfaceGap
		d.Momentum = -math.Abs(d.Momentum) * 0.3
		d.MomentumX *= 0.8

	case n.X != 0:
		if n.X > 0 {
			d.X = b.Right() + d.R + sideGap
		} else {
			d.X = b.X - d.R - sideGap
		}
		d.MomentumX = n.X * 1.5 * (1 - friction)
		d.Momentum += 4
		d.SpreadX = math.Max(d.SpreadX, 0.4)
	}
}

// splash throws count droplets out of d and shrinks it.
func (s *Simulation) splash(d *Droplet, count int, spread, shrink float64) {
	for i := 0; i < count; i++ {
		angle := math.Pi*2*float64(i)/float64(count) + s.random(-0.5, 0.5)
		speed := s.random(2, 6)

		sd := NewDroplet(
			d.X+s.random(-d.R, d.R)*0.5,
			d.Y+s.random(-d.R, d.R)*0.5,
			d.R*s.random(0.15, 0.4),
		)
		sd.MomentumX = math.Cos(angle) * speed * spread
		sd.Momentum = math.Sin(angle)*speed*0.5 + s.random(1, 3)
		sd.SpreadX = 0.6
		sd.SpreadY = 0.4
		sd.Parent = d.ID
		sd.IsSplash = true
		sd.clampVelocity(s.cfg.MaxVelocity)

		if s.store.Add(sd) != nil {
			s.stats.Splashes++
			s.stats.Spawned++
		}
	}
	d.R *= shrink
}

// resolveFlow nudges d along the obstacle's flow field.
func (s *Simulation) resolveFlow(d *Droplet, f FlowVector) {
	strength := f.Strength * math.Min(1, d.R/flowInfluenceR)

	switch f.Kind {
	case FlowDeflection:
		d.MomentumX += f.X * strength * 1.2
		d.Momentum += f.Y * strength * 0.8
		if s.chance(0.2) {
			d.SpreadY = math.Max(d.SpreadY, 0.3)
		}
	case FlowAround:
		d.MomentumX += f.X * strength * 0.6
		d.Momentum += f.Y * strength * 0.5
		d.SpreadX *= 1.1
	case FlowChannel:
		if !s.cfg.FlowChanneling {
			break
		}
		d.MomentumX += f.X * strength * 0.8
		d.Momentum += f.Y * strength * 0.7
		d.SpreadY = math.Max(d.SpreadY, 0.4)
		if s.chance(0.4) {
			s.stream(d)
		}
	}

	d.clampVelocity(s.cfg.MaxVelocity)
}

// stream leaves a thin elongated droplet behind d.
func (s *Simulation) stream(d *Droplet) {
	if d.Momentum <= streamMinSpeed {
		return
	}
	td := NewDroplet(d.X+s.random(-2, 2), d.Y-d.R*0.5, d.R*s.random(0.3, 0.6))
	td.MomentumX = d.MomentumX*0.8 + s.random(-1, 1)
	td.Momentum = d.Momentum * 0.9
	td.SpreadX = 0.2
	td.SpreadY = 0.8
	td.Parent = d.ID
	td.IsTrail = true
	td.clampVelocity(s.cfg.MaxVelocity)

	if s.store.Add(td) != nil {
		s.stats.Trails++
		s.stats.Spawned++
	}
}
