package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/rainflow"
)

const (
	snapshotFile    = "snapshot.msgpack"
	pointerRadius   = 50.0
	pointerStrength = 5.0
	pointerDecay    = 0.95
	flashFrames     = 24 // how long an obstacle glows after a solid hit
)

var (
	backgroundColor = color.RGBA{18, 24, 34, 255}
	textColor       = color.RGBA{200, 210, 225, 255}
	solidColor      = color.RGBA{255, 80, 80, 255}
	influenceColor  = color.RGBA{80, 140, 255, 255}
)

// Game drives a simulation from the Ebitengine loop.
type Game struct {
	sim     *rainflow.Simulation
	clock   rainflow.Clock
	pane    *pane
	text    *textLayer
	paused  bool
	debug   bool
	flashes map[int]int // region ID -> frames left

	pointerX, pointerY int
	pointerStrength    float64
}

// NewGame creates the simulation and the layers drawn on top of it.
func NewGame(width, height int, scale float64, cfg rainflow.Config) *Game {
	g := &Game{
		sim:     rainflow.New(float64(width), float64(height), scale, cfg),
		pane:    newPane(width, height, scale, cfg),
		text:    newTextLayer(width, height, scale, defaultLines),
		flashes: make(map[int]int),
	}
	g.sim.SetSurface(g.pane)
	g.sim.Refresh(g.text)
	g.sim.OnCollision = func(d *rainflow.Droplet, c rainflow.Collision) {
		if c.Kind == rainflow.CollisionSolid {
			g.flashes[c.Source.ID] = flashFrames
		}
	}
	return g
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	g.handleInput()

	for id, n := range g.flashes {
		if n <= 1 {
			delete(g.flashes, id)
		} else {
			g.flashes[id] = n - 1
		}
	}

	if g.paused {
		return nil
	}
	g.pane.begin()
	g.sim.Step(g.clock.Tick(time.Now()))
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.text.draw(screen, g.flashes)
	screen.DrawImage(g.pane.residue, nil)
	screen.DrawImage(g.pane.canvas, nil)

	if g.debug {
		g.drawFlowFields(screen)
	}

	st := g.sim.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS %.0f  %s  drops %d/%d  obstacles %d  impacts %d  flows %d  merges %d  splashes %d",
		ebiten.ActualTPS(), g.sim.Config().Name, g.sim.Store().Len(), g.sim.Store().Limit(),
		g.sim.Index().Len(), st.Impacts, st.Flows, st.Merges, st.Splashes,
	))
}

// Layout returns the screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.sim.Width), int(g.sim.Height)
}

// handleInput processes keyboard and mouse input
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sim.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		cfg := g.sim.Config()
		cfg.Raining = !cfg.Raining
		g.sim.SetConfig(cfg)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.sim.SaveFile(snapshotFile); err != nil {
			log.Printf("save: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if err := g.sim.LoadFile(snapshotFile); err != nil {
			log.Printf("load: %v", err)
		}
	}
	presetKeys := []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5}
	for i, k := range presetKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.switchPreset(rainflow.Presets[i])
		}
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx)/g.sim.Scale, float64(my)/g.sim.Scale
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.sim.Inject(x, y, 1.5)
	}
	if mx != g.pointerX || my != g.pointerY {
		g.pointerStrength = pointerStrength
		g.sim.ApplyExternalImpulse(x, y, pointerRadius, g.pointerStrength)
	}
	g.pointerStrength *= pointerDecay
	g.pointerX, g.pointerY = mx, my
}

// switchPreset swaps the weather and washes the pane.
func (g *Game) switchPreset(name string) {
	cfg, ok := rainflow.Preset(name)
	if !ok {
		return
	}
	cfg.Seed = g.sim.Config().Seed
	g.sim.SetConfig(cfg)
	g.sim.Clear()
	g.sim.Refresh(g.text)
	g.pane.configure(cfg)
}

// drawFlowFields outlines every obstacle and draws its stronger flow vectors.
func (g *Game) drawFlowFields(screen *ebiten.Image) {
	k := float32(g.sim.Scale)
	ix := g.sim.Index()
	for i, ob := range ix.Obstacles() {
		s, in := ob.Solid, ob.Influence
		vector.StrokeRect(screen, float32(s.X)*k, float32(s.Y)*k, float32(s.W)*k, float32(s.H)*k, 1, solidColor, false)
		vector.StrokeRect(screen, float32(in.X)*k, float32(in.Y)*k, float32(in.W)*k, float32(in.H)*k, 1, influenceColor, false)

		ix.Field(i).Each(func(x, y float64, v rainflow.FlowVector) {
			if v.Strength <= 0.1 {
				return
			}
			x0, y0 := float32(x)*k, float32(y)*k
			x1 := x0 + float32(v.X*10)*k
			y1 := y0 + float32(v.Y*10)*k
			clr := flowColor(v.Kind)
			vector.StrokeLine(screen, x0, y0, x1, y1, 0.5, clr, true)
		})
	}
}

func flowColor(k rainflow.FlowKind) color.RGBA {
	switch k {
	case rainflow.FlowDeflection:
		return color.RGBA{255, 120, 60, 90}
	case rainflow.FlowAround:
		return color.RGBA{80, 140, 255, 90}
	case rainflow.FlowChannel:
		return color.RGBA{60, 220, 160, 90}
	default:
		return color.RGBA{128, 128, 128, 60}
	}
}

// depth maps a droplet to [0, 1]: big, compact droplets look deeper.
func depth(d *rainflow.Droplet, minR, deltaR float64) float64 {
	v := math.Max(0, math.Min(1, (d.R-minR)/deltaR*0.9))
	return v / ((d.SpreadX+d.SpreadY)*0.5 + 1)
}
