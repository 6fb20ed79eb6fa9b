// Command rainflow shows droplets running down a window and flowing around
// lines of text.
//
// Usage:
//
//	rainflow [-config file.toml] [-preset name] [-seed n]
//
// Keys: space pauses, C clears the pane, R toggles rain, 1-5 switch
// weather presets, S and L save and load a snapshot, F shows the flow
// fields. Clicking drops a burst of rain, moving the mouse pushes droplets
// away.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/rainflow"
)

func main() {
	var (
		confPath = flag.String("config", "", "TOML config file, replaces -preset (the file may name its own preset)")
		preset   = flag.String("preset", "rain", "weather preset: rain, storm, fallout, drizzle, sunny")
		seed     = flag.Int64("seed", 0, "random seed, overrides the config file's seed unless 0; 0 everywhere seeds from the clock")
		width    = flag.Int("width", 1024, "window width")
		height   = flag.Int("height", 768, "window height")
		scale    = flag.Float64("scale", 1, "pixels per simulation unit")
	)
	flag.Parse()

	cfg, ok := rainflow.Preset(*preset)
	if !ok {
		log.Fatalf("unknown preset %q", *preset)
	}
	if *confPath != "" {
		c, err := rainflow.ParseConfig(*confPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = *c
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	game := NewGame(*width, *height, *scale, cfg)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("rainflow")
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
