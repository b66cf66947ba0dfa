// Package retry runs operations again after transient, classified failures.
package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
)

// Policy is a value type; copies are independent.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration // delay before the first retry
	Max        time.Duration // upper bound for any single delay
	MaxRetries int           // attempts after the first one
}

const (
	defaultInitial    = time.Second
	defaultMax        = 30 * time.Second
	defaultMaxRetries = 2
)

func DefaultPolicy() Policy {
	return Policy{
		Mode:       config.RetryBackoffLinear,
		Initial:    defaultInitial,
		Max:        defaultMax,
		MaxRetries: defaultMaxRetries,
	}
}

// NewPolicy starts from DefaultPolicy and applies every usable argument.
// A negative maxRetries and non-positive durations are ignored, unknown
// modes keep linear, and Initial never exceeds Max.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if mode == config.RetryBackoffFixed || mode == config.RetryBackoffExponential {
		p.Mode = mode
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// FromConfig maps the retry section of pagebuilder.yaml onto a Policy.
func FromConfig(c config.RetryConfig) Policy {
	maxRetries := -1
	if c.MaxRetries != nil {
		maxRetries = *c.MaxRetries
	}
	return NewPolicy(c.Mode, c.Initial, c.Max, maxRetries)
}

// Delay is the wait before retry n, counting from 1. It is 0 for n < 1.
func (p Policy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffExponential:
		d = p.Initial
		for i := 1; i < n && d < p.Max; i++ {
			d *= 2
		}
	default:
		d = p.Initial * time.Duration(n)
	}
	if d <= 0 || d > p.Max {
		return p.Max
	}
	return d
}

// Do calls fn until it succeeds or fails permanently. A failure is
// permanent when it is unclassified, its retry strategy is not transient,
// or MaxRetries is exhausted; that error is returned unchanged.
func (p Policy) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	err := fn(ctx)
	for retry := 1; err != nil && transient(err) && retry <= p.MaxRetries; retry++ {
		delay := p.Delay(retry)
		observability.WarnContext(ctx, "Retrying "+op,
			logfields.Count(retry),
			logfields.DurationMS(float64(delay.Milliseconds())),
			logfields.Error(err))
		if werr := sleep(ctx, delay); werr != nil {
			return errors.WrapError(werr, errors.CategoryCanceled, op+" canceled").
				WithContext("last_error", err.Error()).
				Build()
		}
		err = fn(ctx)
	}
	return err
}

func transient(err error) bool {
	c, ok := errors.AsClassified(err)
	return ok && c.IsTransient()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
