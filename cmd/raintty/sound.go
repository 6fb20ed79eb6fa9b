package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	tickLength    = 15 * time.Millisecond
	tickGap       = 40 * time.Millisecond // at most one tick per gap
	tickMinSpeed  = 6.0
	tickBaseFreq  = 1400.0
	tickSpeedFreq = 60.0
)

// impactSound plays a short tone for hard droplet impacts. A nil
// *impactSound is silent.
type impactSound struct {
	last time.Time
}

func newImpactSound() (*impactSound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return nil, err
	}
	return &impactSound{}, nil
}

// impact ticks for a droplet hitting an obstacle at speed. Faster droplets
// tick lower.
func (s *impactSound) impact(speed float64) {
	if s == nil || speed < tickMinSpeed {
		return
	}
	now := time.Now()
	if now.Sub(s.last) < tickGap {
		return
	}
	s.last = now

	tone, err := generators.SineTone(sampleRate, tickBaseFreq-speed*tickSpeedFreq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(tickLength), tone))
}
