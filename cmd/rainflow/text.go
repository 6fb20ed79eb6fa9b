package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/olivierh59500/rainflow"
)

// Debug font glyph size, and how much it is enlarged on screen.
const (
	glyphW    = 6
	glyphH    = 16
	textScale = 4
	lineGap   = 48
)

var defaultLines = []string{
	"RAINFLOW",
	"water runs around words",
	"click to make it rain harder",
}

type textLine struct {
	id   int
	img  *ebiten.Image
	x, y float64 // screen position, pixels
	w, h float64
}

// textLayer renders lines of text centered on the screen and reports them
// as obstacles.
type textLayer struct {
	lines []textLine
	scale float64
}

func newTextLayer(width, height int, scale float64, lines []string) *textLayer {
	t := &textLayer{scale: scale}
	total := float64(len(lines))*glyphH*textScale + float64(len(lines)-1)*lineGap
	y := (float64(height) - total) / 2
	for i, s := range lines {
		img := ebiten.NewImage(len(s)*glyphW, glyphH)
		ebitenutil.DebugPrintAt(img, s, 0, 0)
		w := float64(len(s) * glyphW * textScale)
		h := float64(glyphH * textScale)
		t.lines = append(t.lines, textLine{
			id:  i + 1,
			img: img,
			x:   (float64(width) - w) / 2,
			y:   y,
			w:   w,
			h:   h,
		})
		y += h + lineGap
	}
	return t
}

// Obstacles returns the line boxes in simulation units.
func (t *textLayer) Obstacles() []rainflow.Region {
	regions := make([]rainflow.Region, 0, len(t.lines))
	for _, l := range t.lines {
		regions = append(regions, rainflow.Region{
			ID: l.id,
			Rect: rainflow.Rect{
				X: l.x / t.scale,
				Y: l.y / t.scale,
				W: l.w / t.scale,
				H: l.h / t.scale,
			},
		})
	}
	return regions
}

// draw renders the lines, brightening those recently hit.
func (t *textLayer) draw(screen *ebiten.Image, flashes map[int]int) {
	for _, l := range t.lines {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(textScale, textScale)
		op.GeoM.Translate(l.x, l.y)
		op.ColorScale.ScaleWithColor(textColor)
		if n := flashes[l.id]; n > 0 {
			k := 1 + float32(n)/flashFrames*0.6
			op.ColorScale.Scale(k, k, k, 1)
		}
		screen.DrawImage(l.img, op)
	}
}
