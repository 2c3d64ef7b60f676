package pipeline

import (
	"context"
	"time"
)

// FixedDelayPacer sleeps a constant interval between analysis calls. The
// external analysis service is rate sensitive, so production runs keep a
// delay; a zero delay turns pacing off.
type FixedDelayPacer struct {
	Delay time.Duration
}

func NewFixedDelayPacer(delay time.Duration) *FixedDelayPacer {
	return &FixedDelayPacer{Delay: delay}
}

func (p *FixedDelayPacer) Pause(ctx context.Context) {
	if p.Delay <= 0 {
		return
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
