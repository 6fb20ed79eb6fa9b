package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/rainflow"
)

var banner = []string{
	"r a i n f l o w",
	"",
	"droplets find their way around words",
	"click for a cloudburst   c clears   q quits",
}

var (
	textStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	residueStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(70, 90, 120))
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// term draws the simulation on a tcell screen. It implements
// rainflow.Surface and rainflow.ObstacleProvider: the banner lines are the
// obstacles.
type term struct {
	screen     tcell.Screen
	cols, rows int
	residue    []float32 // per cell, 0 is dry
	maxR       float64
}

func newTerm(screen tcell.Screen, cols, rows int, cfg rainflow.Config) *term {
	t := &term{screen: screen, maxR: cfg.MaxR}
	t.resize(cols, rows)
	return t
}

func (t *term) resize(cols, rows int) {
	t.cols, t.rows = cols, rows
	t.residue = make([]float32, cols*rows)
}

// lineAt returns the screen position of banner line i.
func (t *term) lineAt(i int) (col, row int) {
	top := (t.rows - len(banner)) / 2
	return (t.cols - len(banner[i])) / 2, top + i
}

func (t *term) Obstacles() []rainflow.Region {
	var regions []rainflow.Region
	for i, s := range banner {
		if s == "" {
			continue
		}
		col, row := t.lineAt(i)
		regions = append(regions, rainflow.Region{
			ID:   i,
			Rect: rainflow.Rect{X: float64(col * cellW), Y: float64(row * cellH), W: float64(len(s) * cellW), H: cellH},
		})
	}
	return regions
}

// cell maps a simulation position to a cell index, or -1 off screen.
func (t *term) cell(x, y float64) int {
	col := int(math.Floor(x / cellW))
	row := int(math.Floor(y / cellH))
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return -1
	}
	return row*t.cols + col
}

// begin clears the screen and draws the residue and banner beneath the
// droplets of the coming step.
func (t *term) begin() {
	t.screen.Clear()
	for i, v := range t.residue {
		if v > 0.3 {
			t.screen.SetContent(i%t.cols, i/t.cols, '.', nil, residueStyle)
		}
	}
	for i, s := range banner {
		col, row := t.lineAt(i)
		for j, r := range s {
			t.screen.SetContent(col+j, row, r, nil, textStyle)
		}
	}
}

func (t *term) show(drops int) {
	status := fmt.Sprintf(" %d drops ", drops)
	for i, r := range status {
		t.screen.SetContent(i, t.rows-1, r, nil, statusStyle)
	}
	t.screen.Show()
}

func (t *term) DrawDroplet(d *rainflow.Droplet) {
	col := int(math.Floor(d.X / cellW))
	row := int(math.Floor(d.Y / cellH))
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return
	}

	var glyph rune
	switch f := d.R / t.maxR; {
	case d.IsTrail:
		glyph = '|'
	case d.IsSplash:
		glyph = '\''
	case f < 0.25:
		glyph = '.'
	case f < 0.5:
		glyph = 'o'
	case f < 0.75:
		glyph = 'O'
	default:
		glyph = '@'
	}
	k := int32(math.Min(1, d.R/t.maxR) * 120)
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(120-k/2, 170-k/3, 255))
	t.screen.SetContent(col, row, glyph, nil, style)
}

func (t *term) Wipe(x, y, r float64) {
	for cy := y - r; cy <= y+r; cy += cellH / 2 {
		for cx := x - r; cx <= x+r; cx += cellW / 2 {
			if i := t.cell(cx, cy); i >= 0 {
				t.residue[i] = 0
			}
		}
	}
}

func (t *term) Speckle(x, y, r float64) {
	if i := t.cell(x, y); i >= 0 {
		t.residue[i] = 1
	}
}

func (t *term) Fade(alpha float64) {
	k := float32(1 - alpha)
	for i := range t.residue {
		t.residue[i] *= k
	}
}
