package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/rainflow"
)

const spriteSize = 64

// Droplets are drawn as ellipses taller than wide.
const (
	dropScaleX = 1.0
	dropScaleY = 1.5
)

// pane is the glass the droplets run on. It implements rainflow.Surface:
// droplets are drawn on canvas every step, speckles accumulate on residue
// until moving droplets wipe them.
type pane struct {
	canvas  *ebiten.Image
	residue *ebiten.Image
	sprite  *ebiten.Image // soft droplet, white
	brush   *ebiten.Image // hard disc used to wipe residue
	pixel   *ebiten.Image
	scale   float64
	minR    float64
	deltaR  float64
}

func newPane(width, height int, scale float64, cfg rainflow.Config) *pane {
	p := &pane{
		canvas:  ebiten.NewImage(width, height),
		residue: ebiten.NewImage(width, height),
		sprite:  ebiten.NewImage(spriteSize, spriteSize),
		brush:   ebiten.NewImage(spriteSize, spriteSize),
		pixel:   ebiten.NewImage(1, 1),
		scale:   scale,
	}
	c := float32(spriteSize) / 2
	for i := 0; i < 8; i++ {
		a := uint8(40 + i*25)
		vector.DrawFilledCircle(p.sprite, c, c, c*(1-float32(i)/10), color.RGBA{a, a, a, a}, true)
	}
	vector.DrawFilledCircle(p.brush, c, c, c, color.White, true)
	p.pixel.Fill(color.White)
	p.configure(cfg)
	return p
}

// configure picks up the radius range used for shading.
func (p *pane) configure(cfg rainflow.Config) {
	p.minR = cfg.MinR
	p.deltaR = cfg.MaxR - cfg.MinR
	if p.deltaR <= 0 {
		p.deltaR = 1
	}
}

// begin clears the droplet canvas before a step redraws it.
func (p *pane) begin() {
	p.canvas.Clear()
}

func (p *pane) DrawDroplet(d *rainflow.Droplet) {
	w := d.R * 2 * dropScaleX * (d.SpreadX + 1)
	h := d.R * 2 * dropScaleY * (d.SpreadY + 1)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/spriteSize*p.scale, h/spriteSize*p.scale)
	op.GeoM.Translate((d.X-w/2)*p.scale, (d.Y-h/2)*p.scale)

	// Deeper droplets take a bluer tint.
	k := float32(depth(d, p.minR, p.deltaR))
	op.ColorScale.Scale(0.75-0.25*k, 0.85-0.15*k, 1, 0.9)
	p.canvas.DrawImage(p.sprite, op)
}

func (p *pane) Wipe(x, y, r float64) {
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationOut}
	op.GeoM.Scale(r*2/spriteSize*p.scale, r*2*dropScaleY/spriteSize*p.scale)
	op.GeoM.Translate((x-r)*p.scale, (y-r)*p.scale)
	p.residue.DrawImage(p.brush, op)
}

func (p *pane) Speckle(x, y, r float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r*2/spriteSize*p.scale, r*2/spriteSize*p.scale)
	op.GeoM.Translate((x-r)*p.scale, (y-r)*p.scale)
	op.ColorScale.Scale(0.7, 0.8, 1, 0.6)
	p.residue.DrawImage(p.sprite, op)
}

func (p *pane) Fade(alpha float64) {
	b := p.residue.Bounds()
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationOut}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleAlpha(float32(alpha))
	p.residue.DrawImage(p.pixel, op)
}
