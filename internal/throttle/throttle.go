// Package throttle contains the write-rate gate which limits how often a wallet writes to a collection.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/metrics"
	"github.com/Decentr-net/agora/internal/storage"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "throttle").WithField("package", "throttle")

// ErrTooFrequent is returned when a wallet writes more often than allowed.
var ErrTooFrequent = errors.New("operate too frequently")

// DefaultCreateInterval is a minimal interval between creations of records by the same wallet.
const DefaultCreateInterval = 30 * time.Second

// DefaultUpdateInterval is a minimal interval between updates of records by the same wallet.
const DefaultUpdateInterval = 3 * time.Second

const (
	createKind = "create"
	updateKind = "update"
)

// Gate checks elapsed time since the wallet's latest write.
// It reads history without locks so concurrent requests of the same wallet may pass it together.
type Gate struct {
	s storage.Storage

	createInterval time.Duration
	updateInterval time.Duration
	testMode       bool

	now func() time.Time
}

// New returns new instance of Gate. Gate in test mode allows everything.
func New(s storage.Storage, createInterval, updateInterval time.Duration, testMode bool) *Gate {
	return &Gate{
		s:              s,
		createInterval: createInterval,
		updateInterval: updateInterval,
		testMode:       testMode,
		now:            time.Now,
	}
}

// CheckCreate returns ErrTooFrequent if the wallet created a record in the collection recently.
func (g *Gate) CheckCreate(ctx context.Context, c storage.Collection, wallet string) error {
	return g.check(ctx, c, wallet, storage.CreatedAtField, g.createInterval, createKind)
}

// CheckUpdate returns ErrTooFrequent if a wallet's record in the collection was updated recently.
func (g *Gate) CheckUpdate(ctx context.Context, c storage.Collection, wallet string) error {
	return g.check(ctx, c, wallet, storage.UpdatedAtField, g.updateInterval, updateKind)
}

// Elapsed returns time passed since the wallet's latest write or -1 if there were no writes.
func (g *Gate) Elapsed(ctx context.Context, c storage.Collection, wallet string, f storage.TimeField) (time.Duration, error) {
	last, err := g.s.LastWrite(ctx, c, wallet, f)
	if err != nil {
		return 0, fmt.Errorf("failed to get last write: %w", err)
	}

	if last.IsZero() {
		return -1, nil
	}

	return g.now().Sub(last), nil
}

func (g *Gate) check(ctx context.Context, c storage.Collection, wallet string, f storage.TimeField, interval time.Duration, kind string) error {
	if g.testMode {
		return nil
	}

	elapsed, err := g.Elapsed(ctx, c, wallet, f)
	if err != nil {
		return err
	}

	if elapsed > 0 && elapsed < interval {
		metrics.GateRejections.WithLabelValues(string(c), kind).Inc()
		log.WithFields(logrus.Fields{
			"collection": c,
			"wallet":     wallet,
			"kind":       kind,
			"elapsed":    elapsed,
		}).Debug("write rejected")

		return fmt.Errorf("%w: retry in %s", ErrTooFrequent, (interval - elapsed).Round(time.Millisecond))
	}

	return nil
}
