package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/framelog/pkg/ports"
)

// Clock is a manual clock. Sleep advances time instantly; Advance simulates
// work done between calls.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	Sleeps []time.Duration

	// SleepFunc, when set, runs before time is advanced.
	SleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClock creates a Clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if c.SleepFunc != nil {
		if err := c.SleepFunc(ctx, d); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sleeps = append(c.Sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var _ ports.Clock = (*Clock)(nil)
