// Package workpool runs a function over a batch of items with bounded
// concurrency and an optional deadline.
//
// Results are returned in input order. The first failing item cancels the rest
// of the batch, and a batch that outlives its deadline fails as a whole with
// errs.ErrDeadlineExceeded; partial results are never returned.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/iquod/wod/errs"
	"golang.org/x/sync/errgroup"
)

// Config bounds a batch.
type Config struct {
	// Concurrency caps the number of items in flight. Zero or less uses GOMAXPROCS.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
	// Timeout bounds the whole batch. Zero means no deadline.
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// DefaultConfig returns a Config with one worker per CPU and no deadline.
func DefaultConfig() Config {
	return Config{Concurrency: runtime.GOMAXPROCS(0)}
}

func (c Config) workers() int {
	if c.Concurrency <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return c.Concurrency
}

// Map applies fn to every item with at most cfg.Concurrency calls in flight and
// returns the results in input order.
//
// fn must honour ctx cancellation for the deadline to interrupt work already in
// flight; items not yet started are skipped once the batch is cancelled.
func Map[T, R any](ctx context.Context, cfg Config, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = r

			return nil
		})
	}

	err := g.Wait()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: batch of %d items after %s", errs.ErrDeadlineExceeded, len(items), cfg.Timeout)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Each is Map for functions without a result.
func Each[T any](ctx context.Context, cfg Config, items []T, fn func(context.Context, T) error) error {
	_, err := Map(ctx, cfg, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})

	return err
}
