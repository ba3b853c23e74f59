// Package counter contains the engine adjusting denormalized statistics of content records.
//
// Adjust is a read-modify-write: it reads the counter and writes the new value only if the counter
// still holds the read one. Two concurrent adjustments may read the same value and then one of them
// is lost. Lost updates are logged and counted but never retried.
package counter

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/metrics"
	"github.com/Decentr-net/agora/internal/resolver"
	"github.com/Decentr-net/agora/internal/storage"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "counter").WithField("package", "counter")

var (
	// ErrInvalidDelta is returned when delta is neither 1 nor -1.
	ErrInvalidDelta = errors.New("invalid delta")
	// ErrUnknownCounter is returned when the record has no such counter.
	ErrUnknownCounter = errors.New("unknown counter")
)

// Gate checks whether the wallet is allowed to update records of the collection.
type Gate interface {
	CheckUpdate(ctx context.Context, c storage.Collection, wallet string) error
}

// Reloader reads the current state of the target.
type Reloader interface {
	Reload(ctx context.Context, t resolver.Target) (resolver.Target, error)
}

// Engine adjusts counters.
type Engine struct {
	s storage.Storage
	g Gate
	r Reloader
}

// New returns new instance of Engine.
func New(s storage.Storage, g Gate, r Reloader) *Engine {
	return &Engine{
		s: s,
		g: g,
		r: r,
	}
}

// Adjust adds delta to the target's counter. The counter never goes below zero.
func (e *Engine) Adjust(ctx context.Context, t resolver.Target, c entities.Counter, delta int64) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}

	if err := e.g.CheckUpdate(ctx, t.Collection(), t.Owner()); err != nil {
		return err
	}

	cur, err := e.r.Reload(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", t.Kind, err)
	}

	v, ok := cur.Counter(c)
	if !ok {
		return fmt.Errorf("%w: %s has no %s", ErrUnknownCounter, cur.Kind, c)
	}

	next := v + delta
	if next < 0 {
		next = 0
	}

	l := log.WithFields(logrus.Fields{
		"collection": cur.Collection(),
		"id":         cur.ID(),
		"counter":    c,
		"value":      v,
		"delta":      delta,
	})

	ok, err = e.s.SetCounter(ctx, cur.Collection(), cur.ID(), c, v, next)
	if err != nil {
		metrics.CounterAdjustments.WithLabelValues(string(cur.Collection()), string(c), metrics.AdjustFailed).Inc()
		if errors.Is(err, storage.ErrUnknownCounter) {
			return fmt.Errorf("%w: %s", ErrUnknownCounter, c)
		}
		return fmt.Errorf("failed to set counter: %w", err)
	}

	if !ok {
		metrics.CounterAdjustments.WithLabelValues(string(cur.Collection()), string(c), metrics.AdjustLost).Inc()
		l.Warn("counter was changed concurrently, update is lost")
		return nil
	}

	metrics.CounterAdjustments.WithLabelValues(string(cur.Collection()), string(c), metrics.AdjustApplied).Inc()
	l.Debug("counter adjusted")

	return nil
}
