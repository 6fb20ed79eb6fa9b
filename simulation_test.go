package rainflow

import (
	"math"
	"testing"
)

// quietConfig is deterministic and spawns nothing on its own.
func quietConfig() Config {
	c := DefaultConfig()
	c.Seed = 1
	c.Raining = false
	c.NaturalClustering = false
	c.AutoShrink = false
	c.DropletsRate = 0
	c.WindStrength = 0
	return c
}

type recordingSurface struct {
	drawn    int
	wipes    int
	speckles int
	fades    int
}

func (r *recordingSurface) DrawDroplet(*Droplet)      { r.drawn++ }
func (r *recordingSurface) Wipe(x, y, rad float64)    { r.wipes++ }
func (r *recordingSurface) Speckle(x, y, rad float64) { r.speckles++ }
func (r *recordingSurface) Fade(alpha float64)        { r.fades++ }

func TestDropletHitsObstacleTop(t *testing.T) {
	s := New(200, 400, 1, quietConfig())
	s.SetObstacles([]Region{block})

	d := NewDroplet(50, 0, 30)
	d.Momentum = 5
	drop := s.Spawn(d)
	if drop == nil {
		t.Fatalf("Expected droplet to spawn")
	}

	var (
		hit      Collision
		hitDrop  Droplet
		collided bool
	)
	s.OnCollision = func(d *Droplet, c Collision) {
		if !collided && c.Kind == CollisionSolid {
			hit, hitDrop, collided = c, *d, true
		}
	}

	for i := 0; i < 100 && !collided; i++ {
		drop.Momentum = 5
		s.Step(1)
	}
	if !collided {
		t.Fatalf("Expected a solid collision, droplet ended at y=%v", drop.Y)
	}
	if hit.Normal != (Vec{Y: -1}) {
		t.Errorf("Expected top face normal (0,-1), got %+v", hit.Normal)
	}

	pre := hitDrop.Momentum
	s.resolve(&hitDrop, hit)
	if hitDrop.Momentum > pre {
		t.Errorf("Expected vertical momentum <= %v after impact, got %v", pre, hitDrop.Momentum)
	}
}

func TestSpawnAtCapacity(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxDrops = 3
	s := New(1024, 768, 1, cfg)

	if s.Store().Limit() != 3 {
		t.Fatalf("Expected limit 3 at reference size, got %d", s.Store().Limit())
	}
	for i := 0; i < 3; i++ {
		if s.Spawn(NewDroplet(float64(i)*100, 100, 10)) == nil {
			t.Fatalf("Expected droplet %d to spawn", i)
		}
	}

	if d := s.Spawn(NewDroplet(500, 500, 10)); d != nil {
		t.Errorf("Expected no droplet at capacity")
	}
	if n := s.Store().Len(); n != 3 {
		t.Errorf("Expected population 3, got %d", n)
	}
}

func TestPopulationNeverExceedsLimit(t *testing.T) {
	cfg, _ := Preset("storm")
	cfg.Seed = 7
	cfg.MaxDrops = 60
	s := New(1024, 768, 1, cfg)
	s.SetObstacles([]Region{
		{ID: 1, Rect: Rect{X: 300, Y: 300, W: 400, H: 60}},
	})

	limit := s.Store().Limit()
	maxR := s.Config().MaxR
	for i := 0; i < 300; i++ {
		if i%10 == 0 {
			s.Inject(512, 100, 2)
		}
		s.Step(1)
		if n := s.Store().Len(); n > limit {
			t.Fatalf("Step %d: population %d exceeds limit %d", i, n, limit)
		}
		for _, d := range s.Droplets() {
			if d.R > maxR {
				t.Fatalf("Step %d: radius %v exceeds %v", i, d.R, maxR)
			}
			if v := d.Velocity().Len(); math.IsNaN(v) {
				t.Fatalf("Step %d: droplet velocity is NaN", i)
			}
		}
	}
}

func TestMergeLargerEarlierAbsorbs(t *testing.T) {
	tests := []struct {
		name         string
		firstR       float64
		secondR      float64
		firstAbsorbs bool
	}{
		{"Larger first", 10, 5, true},
		{"Smaller first", 5, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(400, 400, 1, quietConfig())
			a := s.Spawn(NewDroplet(100, 100, tt.firstR))
			b := s.Spawn(NewDroplet(100, 105, tt.secondR))

			s.Step(1)

			if tt.firstAbsorbs {
				if !b.Killed {
					t.Fatalf("Expected second droplet to be absorbed")
				}
				want := math.Sqrt(tt.firstR*tt.firstR + 0.8*tt.secondR*tt.secondR)
				if math.Abs(a.R-want) > 1e-9 {
					t.Errorf("Expected radius %v, got %v", want, a.R)
				}
				if a.SpreadX != 0 || a.SpreadY != 0 {
					t.Errorf("Expected spread reset, got %v,%v", a.SpreadX, a.SpreadY)
				}
				if s.Stats().Merges != 1 {
					t.Errorf("Expected 1 merge, got %d", s.Stats().Merges)
				}
				return
			}
			if a.Killed || b.Killed {
				t.Errorf("Expected no merge when the smaller droplet comes first")
			}
		})
	}
}

func TestMergeMirror(t *testing.T) {
	// The same geometry with the identities swapped gives the mirrored result.
	for _, swap := range []bool{false, true} {
		s := New(400, 400, 1, quietConfig())
		var a, b *Droplet
		if swap {
			b = s.Spawn(NewDroplet(100, 100, 10))
			a = s.Spawn(NewDroplet(100, 105, 5))
		} else {
			a = s.Spawn(NewDroplet(100, 100, 10))
			b = s.Spawn(NewDroplet(100, 105, 5))
		}

		s.Step(1)

		winner, loser := a, b
		if swap {
			winner, loser = b, a
		}
		if !loser.Killed || winner.Killed {
			t.Errorf("swap=%v: expected the larger, earlier droplet to survive", swap)
		}
		if winner.R <= 10 {
			t.Errorf("swap=%v: expected the survivor to grow, got %v", swap, winner.R)
		}
	}
}

func TestMergeRadiusCapped(t *testing.T) {
	s := New(400, 400, 1, quietConfig())
	maxR := s.Config().MaxR
	a := s.Spawn(NewDroplet(100, 100, maxR-1))
	b := s.Spawn(NewDroplet(100, 110, maxR-2))

	s.Step(1)

	if !b.Killed {
		t.Fatalf("Expected droplets to merge")
	}
	if a.R != maxR {
		t.Errorf("Expected radius capped at %v, got %v", maxR, a.R)
	}
}

func TestParentAndChildDoNotMerge(t *testing.T) {
	s := New(400, 400, 1, quietConfig())
	a := s.Spawn(NewDroplet(100, 100, 10))
	child := NewDroplet(100, 104, 4)
	child.Parent = a.ID
	b := s.Spawn(child)

	s.Step(1)

	if a.Killed || b.Killed {
		t.Errorf("Expected parent and child to stay apart")
	}
}

func TestClearRemovesEverything(t *testing.T) {
	s := New(800, 600, 1, quietConfig())
	surface := &recordingSurface{}
	s.SetSurface(surface)
	for i := 0; i < 20; i++ {
		s.Spawn(NewDroplet(float64(40+i*35), 100, 30))
	}

	s.Clear()
	for i := 0; i < 600 && s.Store().Len() > 0; i++ {
		s.Step(1)
	}

	if n := s.Store().Len(); n != 0 {
		t.Errorf("Expected all droplets cleared, %d left", n)
	}
	if surface.fades == 0 {
		t.Errorf("Expected residue to fade after clear")
	}
}

func TestStepDrawsSurvivors(t *testing.T) {
	s := New(800, 600, 1, quietConfig())
	surface := &recordingSurface{}
	s.SetSurface(surface)
	s.Spawn(NewDroplet(100, 100, 10))
	s.Spawn(NewDroplet(300, 100, 10))
	s.Spawn(NewDroplet(500, 100, 10))

	s.Step(1)

	if surface.drawn != 3 {
		t.Errorf("Expected 3 draws, got %d", surface.drawn)
	}
	if surface.speckles != 0 {
		t.Errorf("Expected no speckles without rain, got %d", surface.speckles)
	}
}

func TestStepIgnoresBadTimeScale(t *testing.T) {
	s := New(400, 400, 1, quietConfig())
	d := NewDroplet(100, 100, 20)
	d.Momentum = 5
	drop := s.Spawn(d)

	s.Step(math.NaN())
	if drop.Y != 100 {
		t.Errorf("Expected NaN step to do nothing, y=%v", drop.Y)
	}

	s.Step(-3)
	if math.IsNaN(drop.Y) || drop.Y < 100 {
		t.Errorf("Expected negative step to be clamped, y=%v", drop.Y)
	}
}

func TestInject(t *testing.T) {
	s := New(1024, 768, 1, quietConfig())
	s.Inject(500, 300, 1)

	if n := s.Store().Len(); n != 6 {
		t.Errorf("Expected 6 droplets, got %d", n)
	}
	for _, d := range s.Droplets() {
		if v := d.Velocity().Len(); v > s.Config().MaxVelocity {
			t.Errorf("Expected velocity <= %v, got %v", s.Config().MaxVelocity, v)
		}
	}
}

func TestApplyExternalImpulse(t *testing.T) {
	s := New(400, 400, 1, quietConfig())
	right := s.Spawn(NewDroplet(110, 100, 10))
	left := s.Spawn(NewDroplet(90, 100, 10))
	far := s.Spawn(NewDroplet(300, 300, 10))

	s.ApplyExternalImpulse(100, 100, 50, 5)

	if right.MomentumX <= 0 || left.MomentumX >= 0 {
		t.Errorf("Expected droplets pushed apart, got %v and %v", right.MomentumX, left.MomentumX)
	}
	if far.MomentumX != 0 || far.Momentum != 0 {
		t.Errorf("Expected distant droplet untouched")
	}
}

func TestApplyWind(t *testing.T) {
	s := New(400, 400, 1, quietConfig())
	d := s.Spawn(NewDroplet(100, 100, 10))
	sp := NewDroplet(200, 100, 10)
	sp.IsSplash = true
	splash := s.Spawn(sp)

	s.ApplyWind(5, 0)

	if math.Abs(d.MomentumX-0.5) > 1e-9 {
		t.Errorf("Expected MomentumX 0.5, got %v", d.MomentumX)
	}
	if splash.MomentumX != 0 {
		t.Errorf("Expected splash droplets to ignore wind")
	}
}

func TestResizeScalesLimit(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxDrops = 100
	s := New(1024, 768, 1, cfg)
	if s.Store().Limit() != 100 {
		t.Fatalf("Expected limit 100, got %d", s.Store().Limit())
	}

	s.Resize(2048, 1536)
	if s.AreaScale() != 2 || s.Store().Limit() != 200 {
		t.Errorf("Expected area scale 2 and limit 200, got %v and %d", s.AreaScale(), s.Store().Limit())
	}
}

func TestResizeRetiresOutsideAndExcess(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxDrops = 100
	s := New(1024, 768, 1, cfg)
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			if s.Spawn(NewDroplet(float64(50+i*100), float64(50+j*60), 3)) == nil {
				t.Fatalf("Expected droplet (%d,%d) to spawn", i, j)
			}
		}
	}

	s.Resize(512, 384)
	if s.Store().Limit() != 50 {
		t.Fatalf("Expected limit 50 after resize, got %d", s.Store().Limit())
	}
	s.Step(1)

	if n := s.Store().Len(); n > 50 {
		t.Errorf("Expected population <= 50, got %d", n)
	}
	w, h := s.Bounds()
	for _, d := range s.Droplets() {
		if d.X > w+d.R || d.Y > h+d.R {
			t.Errorf("Expected droplet at (%v, %v) outside the pane to be retired", d.X, d.Y)
		}
	}

	// Lowering the cap retires the excess on the next step.
	before := s.Store().Len()
	cfg.MaxDrops = 20
	s.SetConfig(cfg)
	limit := s.Store().Limit()
	s.Step(1)
	if n := s.Store().Len(); n > limit {
		t.Errorf("Expected population <= %d after SetConfig, got %d", limit, n)
	}
	if got := s.Stats().Retired; got != 100-s.Store().Len() {
		t.Errorf("Expected %d retired droplets, got %d (had %d before)", 100-s.Store().Len(), got, before)
	}
}

func TestDropletLeavingPaneIsRetired(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		mx, my float64
	}{
		{"Left edge", 3, 100, -10, 1},
		{"Right edge", 197, 100, 10, 1},
		{"Bottom edge", 100, 198, 0, 10},
		{"Resting outside", 250, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(200, 200, 1, quietConfig())
			d := NewDroplet(tt.x, tt.y, 5)
			d.MomentumX = tt.mx
			d.Momentum = tt.my
			drop := s.Spawn(d)

			s.Step(1)

			if !drop.Killed {
				t.Errorf("Expected droplet to be killed at (%v, %v)", drop.X, drop.Y)
			}
			if n := s.Store().Len(); n != 0 {
				t.Errorf("Expected empty population, got %d", n)
			}
			if s.Stats().Retired != 1 {
				t.Errorf("Expected 1 retired droplet, got %d", s.Stats().Retired)
			}
		})
	}
}

func TestTrail(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		momentum float64
	}{
		{"Slow and small", 15, 2},
		{"Fast and big", 30, 10},
	}

	next := make([]float64, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(400, 400, 1, quietConfig())
			d := s.Spawn(NewDroplet(100, 100, tt.r))
			d.Momentum = tt.momentum

			s.trail(d, 1)

			if s.Stats().Trails != 1 {
				t.Fatalf("Expected one trail droplet, got %d", s.Stats().Trails)
			}
			if want := tt.r * 0.97; math.Abs(d.R-want) > 1e-9 {
				t.Errorf("Expected emitter radius %v, got %v", want, d.R)
			}
			if d.LastSpawn != 0 {
				t.Errorf("Expected travelled distance reset, got %v", d.LastSpawn)
			}
			for _, o := range s.Droplets() {
				if o != d && o.Parent != d.ID {
					t.Errorf("Expected trail droplet parented to %d, got %d", d.ID, o.Parent)
				}
			}
			next[i] = d.NextSpawn
		})
	}

	// Both runs draw the same random numbers.
	if next[1] >= next[0] {
		t.Errorf("Expected a shorter trail interval for fast, big droplets: %v >= %v", next[1], next[0])
	}
}

func TestResidue(t *testing.T) {
	t.Run("Moved droplets wipe", func(t *testing.T) {
		cfg := quietConfig()
		cfg.DropletsRate = 10
		s := New(800, 600, 1, cfg)
		surface := &recordingSurface{}
		s.SetSurface(surface)
		moving := NewDroplet(100, 100, 10)
		moving.Momentum = 5
		s.Spawn(moving)
		s.Spawn(NewDroplet(400, 100, 10))

		s.Step(1)

		if surface.wipes != 1 {
			t.Errorf("Expected 1 wipe, got %d", surface.wipes)
		}
		if surface.drawn != 2 {
			t.Errorf("Expected 2 draws, got %d", surface.drawn)
		}
	})

	t.Run("Rain speckles", func(t *testing.T) {
		cfg := quietConfig()
		cfg.Raining = true
		cfg.RainChance = 0
		cfg.DropletsRate = 10
		s := New(1024, 768, 1, cfg)
		surface := &recordingSurface{}
		s.SetSurface(surface)

		s.Step(1)

		if surface.speckles != 10 {
			t.Errorf("Expected 10 speckles, got %d", surface.speckles)
		}
		if s.Store().Len() != 0 {
			t.Errorf("Expected no droplets without rain chance, got %d", s.Store().Len())
		}
	})

	t.Run("Fade stops", func(t *testing.T) {
		s := New(800, 600, 1, quietConfig())
		surface := &recordingSurface{}
		s.SetSurface(surface)

		s.Clear()
		for i := 0; i < 80; i++ {
			s.Step(1)
		}

		if surface.fades != fadeFrames {
			t.Errorf("Expected %d fades, got %d", fadeFrames, surface.fades)
		}
	})
}

func TestGustCadence(t *testing.T) {
	tests := []struct {
		name  string
		steps []float64
		want  int
	}{
		{"Under interval", []float64{1, 1, 1, 1, 1}, 0},
		{"One interval", []float64{1, 1, 1, 1, 1, 1}, 1},
		{"Long step", []float64{13}, 2},
		{"Fractional", []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGusts(1)
			got := 0
			for _, ts := range tt.steps {
				got += g.advance(ts)
			}
			if got != tt.want {
				t.Errorf("Expected %d impulses, got %d", tt.want, got)
			}
		})
	}

	g := newGusts(1)
	for i := 0; i < 1000; i++ {
		g.advance(1)
		if v := g.strength(4); v < 0 || math.IsNaN(v) {
			t.Fatalf("Expected a non-negative gust strength, got %v", v)
		}
	}
	if v := g.strength(0); v != 0 {
		t.Errorf("Expected no gust without wind, got %v", v)
	}
}

func TestNaturalClustering(t *testing.T) {
	tests := []struct {
		name       string
		clustering bool
		raining    bool
		want       bool
	}{
		{"Enabled", true, true, true},
		{"Disabled", false, true, false},
		{"Dry", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			cfg.Raining = tt.raining
			cfg.RainChance = 0
			cfg.NaturalClustering = tt.clustering
			s := New(1024, 768, 1, cfg)

			// 100 chances at 0.1 each.
			for i := 0; i < 100*clusterInterval; i++ {
				s.updateWeather(1)
			}

			if got := s.Stats().Spawned > 0; got != tt.want {
				t.Fatalf("Expected clusters=%v, spawned %d", tt.want, s.Stats().Spawned)
			}
			_, h := s.Bounds()
			for _, d := range s.Droplets() {
				if d.Y > h*0.3+20 {
					t.Errorf("Expected clusters in the upper part of the pane, got y=%v", d.Y)
				}
			}
		})
	}
}
