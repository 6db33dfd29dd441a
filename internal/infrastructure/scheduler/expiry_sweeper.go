// Package scheduler runs background jobs of the API process.
package scheduler

import (
	"context"
	"log"
	"time"
)

// Sweeper is satisfied by usecase.QuoteUseCase.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

type ExpirySweeper struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
}

func NewExpirySweeper(sweeper Sweeper, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirySweeper{sweeper: sweeper, interval: interval, timeout: interval}
}

// Run sweeps once immediately, then every interval until ctx is done. A failed
// sweep is logged and retried on the next tick.
func (s *ExpirySweeper) Run(ctx context.Context) error {
	log.Printf("[scheduler][expiry] started interval=%s", s.interval)
	s.sweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[scheduler][expiry] stopping: %v", ctx.Err())
			return nil
		case <-timer.C:
			s.sweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *ExpirySweeper) sweepOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		log.Printf("[scheduler][expiry] sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[scheduler][expiry] expired=%d", n)
	}
}
