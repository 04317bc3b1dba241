package memory

import (
	"context"
	"fmt"
	"time"
)

// Combiner implements ports.Combiner by formatting both codes into a message
// after an optional delay.
type Combiner struct {
	delay time.Duration
}

// CombinerOption configures a Combiner.
type CombinerOption func(*Combiner)

// WithDelay makes every combination take d.
func WithDelay(d time.Duration) CombinerOption {
	return func(c *Combiner) {
		c.delay = d
	}
}

// NewCombiner creates a combiner.
func NewCombiner(opts ...CombinerOption) *Combiner {
	c := &Combiner{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Message formats the combination result for two codes.
func Message(codeA, codeB string) string {
	return fmt.Sprintf("Values %q and %q have been mapped", codeA, codeB)
}

// Combine waits for the configured delay and returns the message.
func (c *Combiner) Combine(ctx context.Context, codeA, codeB string) (string, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Message(codeA, codeB), nil
}
