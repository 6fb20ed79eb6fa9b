package rainflow

import "time"

// MaxTimeScale caps the time scale of a single step so that a long pause
// between frames cannot produce a runaway integration step.
const MaxTimeScale = 1.1

// baselineFrame is the frame duration a time scale of 1 stands for.
const baselineFrame = time.Second / 60

// Clock converts wall-clock frame gaps into time scales for Step.
type Clock struct {
	last time.Time
}

// Tick returns the time elapsed since the previous tick in baseline frames,
// capped at MaxTimeScale. The first tick returns 0.
func (c *Clock) Tick(now time.Time) float64 {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	ts := float64(now.Sub(c.last)) / float64(baselineFrame)
	c.last = now
	return clamp(ts, 0, MaxTimeScale)
}
