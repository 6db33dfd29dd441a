package notifier

import (
	"math"
	"time"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

// BackoffConfig shapes the poll cadence. Polling starts at Base, settles at
// Steady after a successful fetch and stretches by Factor on every failure up
// to Ceiling.
type BackoffConfig struct {
	Base    time.Duration
	Steady  time.Duration
	Ceiling time.Duration
	Factor  float64
}

func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		Base:    5 * time.Second,
		Steady:  30 * time.Second,
		Ceiling: 5 * time.Minute,
		Factor:  1.8,
	}
}

func (c BackoffConfig) normalized() BackoffConfig {
	d := DefaultBackoff()
	if c.Base <= 0 {
		c.Base = d.Base
	}
	if c.Steady <= 0 {
		c.Steady = d.Steady
	}
	if c.Ceiling < c.Base || c.Ceiling < c.Steady {
		c.Ceiling = max(c.Base, c.Steady, d.Ceiling)
	}
	if c.Factor <= 1 {
		c.Factor = d.Factor
	}
	return c
}

// NextInterval returns the delay before the next fetch given the delay that
// preceded the last one. A zero prev means nothing was scheduled yet.
func NextInterval(cfg BackoffConfig, prev time.Duration, outcome Outcome) time.Duration {
	cfg = cfg.normalized()
	if outcome == OutcomeSuccess {
		return cfg.Steady
	}
	if prev <= 0 {
		prev = cfg.Base
	}
	next := math.Round(float64(prev) * cfg.Factor)
	if next >= float64(cfg.Ceiling) {
		return cfg.Ceiling
	}
	return time.Duration(next)
}
