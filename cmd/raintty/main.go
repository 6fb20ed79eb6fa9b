// Command raintty lets droplets run down the terminal around its own text.
//
// Usage:
//
//	raintty [-preset name] [-seed n] [-sound]
//
// Keys: q or Esc quits, c clears the pane. A mouse click drops a burst of
// rain where it lands.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/rainflow"
)

// Every terminal cell covers cellW x cellH simulation units.
const (
	cellW = 8
	cellH = 16
)

func main() {
	var (
		preset = flag.String("preset", "drizzle", "weather preset: rain, storm, fallout, drizzle, sunny")
		seed   = flag.Int64("seed", 0, "random seed, 0 for time based")
		sound  = flag.Bool("sound", false, "tick on hard impacts")
	)
	flag.Parse()

	cfg, ok := rainflow.Preset(*preset)
	if !ok {
		log.Fatalf("unknown preset %q", *preset)
	}
	cfg.Seed = *seed

	var ticker *impactSound
	if *sound {
		var err error
		ticker, err = newImpactSound()
		if err != nil {
			// Non-fatal, rain can fall silently
			log.Printf("audio initialization failed: %v", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	cols, rows := screen.Size()
	t := newTerm(screen, cols, rows, cfg)
	sim := rainflow.New(float64(cols*cellW), float64(rows*cellH), 1, cfg)
	sim.SetSurface(t)
	sim.Refresh(t)
	sim.OnCollision = func(d *rainflow.Droplet, c rainflow.Collision) {
		if c.Kind == rainflow.CollisionSolid {
			ticker.impact(d.Velocity().Len())
		}
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var clock rainflow.Clock
	frame := time.NewTicker(time.Second / 60)
	defer frame.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
				if ev.Rune() == 'c' {
					sim.Clear()
				}
			case *tcell.EventMouse:
				if ev.Buttons()&tcell.Button1 != 0 {
					x, y := ev.Position()
					sim.Inject(float64(x*cellW), float64(y*cellH), 1)
				}
			case *tcell.EventResize:
				cols, rows = screen.Size()
				t.resize(cols, rows)
				sim.Resize(float64(cols*cellW), float64(rows*cellH))
				sim.Refresh(t)
				screen.Sync()
			}

		case now := <-frame.C:
			t.begin()
			sim.Step(clock.Tick(now))
			t.show(sim.Store().Len())
		}
	}
}
