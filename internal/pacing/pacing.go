// Package pacing implements the operator-visible waits between outreach
// actions.
package pacing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
)

// Pacer blocks for d before an action labelled label.
type Pacer interface {
	Wait(ctx context.Context, label string, d time.Duration) error
}

// Countdown prints "label : N sec" once per second, overwriting the line.
type Countdown struct {
	Out  io.Writer
	Tick time.Duration
}

// NewCountdown returns a once-per-second countdown writing to out.
func NewCountdown(out io.Writer) *Countdown {
	return &Countdown{Out: out, Tick: time.Second}
}

// Wait counts d down in whole ticks. It returns early with the context error
// when ctx is cancelled.
func (c *Countdown) Wait(ctx context.Context, label string, d time.Duration) error {
	tick := c.Tick
	if tick <= 0 {
		tick = time.Second
	}
	remaining := int(d / tick)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for ; remaining >= 0; remaining-- {
		fmt.Fprintf(c.Out, "\r%s : %d sec", label, remaining)
		if remaining == 0 {
			break
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.Out)
			return eris.Wrapf(ctx.Err(), "pacing: %s", label)
		case <-ticker.C:
		}
	}
	fmt.Fprintln(c.Out)
	return nil
}

// Instant never waits. Used by tests and dry runs.
type Instant struct{}

// Wait returns immediately unless ctx is already done.
func (Instant) Wait(ctx context.Context, label string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "pacing: %s", label)
	}
	return nil
}
