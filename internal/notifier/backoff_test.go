package notifier

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextInterval_SuccessResetsToSteady(t *testing.T) {
	cfg := BackoffConfig{Base: time.Second, Steady: 30 * time.Second, Ceiling: time.Minute, Factor: 1.8}

	assert.Equal(t, 30*time.Second, NextInterval(cfg, time.Second, OutcomeSuccess))
	assert.Equal(t, 30*time.Second, NextInterval(cfg, time.Minute, OutcomeSuccess))
}

func TestNextInterval_FailuresGrowGeometricallyUpToCeiling(t *testing.T) {
	cfg := BackoffConfig{Base: time.Second, Steady: 30 * time.Second, Ceiling: time.Minute, Factor: 1.8}

	interval := cfg.Base
	for n := 1; n <= 12; n++ {
		interval = NextInterval(cfg, interval, OutcomeFailure)
		want := math.Min(float64(cfg.Ceiling), float64(cfg.Base)*math.Pow(1.8, float64(n)))
		assert.InDelta(t, want, float64(interval), float64(time.Microsecond), "after %d failures", n)
	}
	assert.Equal(t, time.Minute, interval)
}

func TestNextInterval_StartsFromBase(t *testing.T) {
	cfg := BackoffConfig{Base: 2 * time.Second, Steady: 30 * time.Second, Ceiling: time.Minute, Factor: 1.8}

	assert.Equal(t, 3600*time.Millisecond, NextInterval(cfg, 0, OutcomeFailure))
}

func TestNextInterval_NormalizesConfig(t *testing.T) {
	d := DefaultBackoff()

	assert.Equal(t, d.Steady, NextInterval(BackoffConfig{}, 0, OutcomeSuccess))
	assert.Equal(t, 9*time.Second, NextInterval(BackoffConfig{}, 0, OutcomeFailure))
}
