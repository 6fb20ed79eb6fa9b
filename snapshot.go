package rainflow

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the persisted form of a droplet population.
type snapshot struct {
	Width    float64   `msgpack:"w"`
	Height   float64   `msgpack:"h"`
	Scale    float64   `msgpack:"scale"`
	Droplets []Droplet `msgpack:"drops"`
}

// Save writes the live droplets to w.
func (s *Simulation) Save(w io.Writer) error {
	snap := snapshot{
		Width:    s.Width,
		Height:   s.Height,
		Scale:    s.Scale,
		Droplets: make([]Droplet, 0, s.store.Len()),
	}
	for _, d := range s.store.Droplets() {
		if !d.Killed {
			snap.Droplets = append(snap.Droplets, *d)
		}
	}
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Load replaces the live droplets with those read from r. Droplets from a
// pane of a different size are rescaled to this one; droplets beyond the
// population cap are dropped.
func (s *Simulation) Load(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	w, h := s.Bounds()
	sx, sy := 1.0, 1.0
	if snap.Width > 0 && snap.Height > 0 && snap.Scale > 0 {
		sx = w / (snap.Width / snap.Scale)
		sy = h / (snap.Height / snap.Scale)
	}
	for i := range snap.Droplets {
		snap.Droplets[i].X *= sx
		snap.Droplets[i].Y *= sy
	}
	s.store.restore(snap.Droplets)
	return nil
}

// SaveFile writes the live droplets to the named file.
func (s *Simulation) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile replaces the live droplets with those stored in the named file.
func (s *Simulation) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}
