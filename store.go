package rainflow

import (
	"cmp"
	"slices"
)

// Store holds the live droplet population.
//
// During a step the live generation is read-only: droplets created while
// stepping are queued and only become live when the step commits the next
// generation. Outside a step they are added directly.
type Store struct {
	drops   []*Droplet
	pending []*Droplet
	limit   int
	nextID  uint64
	inStep  bool
}

// NewStore creates a store holding at most limit droplets.
func NewStore(limit int) *Store {
	return &Store{limit: max(limit, 0)}
}

// Len returns the number of droplets, live and queued.
func (s *Store) Len() int {
	return len(s.drops) + len(s.pending)
}

// Limit returns the population cap.
func (s *Store) Limit() int {
	return s.limit
}

// SetLimit changes the population cap. Existing droplets are kept.
func (s *Store) SetLimit(limit int) {
	s.limit = max(limit, 0)
}

// Full reports whether no droplet can be added.
func (s *Store) Full() bool {
	return s.Len() >= s.limit
}

// Droplets returns the live generation. The slice must not be retained
// across steps.
func (s *Store) Droplets() []*Droplet {
	return s.drops
}

// Add stores a copy of d under a new ID and returns it, or returns nil if
// the store is full or d has no radius.
func (s *Store) Add(d Droplet) *Droplet {
	if s.Full() || d.R <= 0 {
		return nil
	}
	s.nextID++
	nd := d
	nd.ID = s.nextID
	p := &nd
	if s.inStep {
		s.pending = append(s.pending, p)
	} else {
		s.drops = append(s.drops, p)
	}
	return p
}

// Reset drops every droplet.
func (s *Store) Reset() {
	s.drops = nil
	s.pending = nil
}

// restore replaces the population with ds, keeping at most limit of them.
func (s *Store) restore(ds []Droplet) {
	s.Reset()
	for _, d := range ds {
		if len(s.drops) >= s.limit {
			break
		}
		nd := d
		s.drops = append(s.drops, &nd)
		s.nextID = max(s.nextID, nd.ID)
	}
	// IDs must stay unique even if the snapshot carried zeros or duplicates.
	seen := make(map[uint64]bool, len(s.drops))
	for _, d := range s.drops {
		if d.ID == 0 || seen[d.ID] {
			s.nextID++
			d.ID = s.nextID
		}
		seen[d.ID] = true
	}
}

func (s *Store) begin() {
	s.inStep = true
}

// commit makes survivors followed by the queued droplets the live generation.
// If that is more than the cap allows, the smallest droplets are killed and
// left out. It returns how many were.
func (s *Store) commit(survivors []*Droplet) int {
	drops := append(survivors, s.pending...)
	s.pending = nil
	s.inStep = false

	excess := len(drops) - s.limit
	if excess > 0 {
		bySize := slices.Clone(drops)
		slices.SortStableFunc(bySize, func(a, b *Droplet) int {
			return cmp.Compare(a.R, b.R)
		})
		for _, d := range bySize[:excess] {
			d.Killed = true
		}
		drops = slices.DeleteFunc(drops, func(d *Droplet) bool { return d.Killed })
	}
	s.drops = drops
	return max(excess, 0)
}

// sortScanOrder sorts the live droplets top to bottom, then left to right.
func (s *Store) sortScanOrder(width float64) {
	slices.SortStableFunc(s.drops, func(a, b *Droplet) int {
		return cmp.Compare(a.scanKey(width), b.scanKey(width))
	})
}
