// Package impl is implementation of service interfaces.
package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/counter"
	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/feed"
	"github.com/Decentr-net/agora/internal/metrics"
	"github.com/Decentr-net/agora/internal/resolver"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/signature"
	"github.com/Decentr-net/agora/internal/storage"
	"github.com/Decentr-net/agora/internal/throttle"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "service").WithField("package", "impl")

// core holds dependencies shared by services of all entities.
type core struct {
	s storage.Storage
	v signature.Validator
	g *throttle.Gate
	r *resolver.Resolver
	c *counter.Engine
	a *feed.Annotator

	now func() time.Time
}

// New creates services of all entities sharing the storage handle.
func New(s storage.Storage, v signature.Validator, g *throttle.Gate, followeeLimit uint64) *service.Services {
	r := resolver.New(s)
	a := feed.NewAnnotator(s)

	c := &core{
		s:   s,
		v:   v,
		g:   g,
		r:   r,
		c:   counter.New(s, g, r),
		a:   a,
		now: func() time.Time { return time.Now().UTC() },
	}

	return &service.Services{
		Post:     &postService{core: c, feed: feed.New(s, a, followeeLimit)},
		Comment:  &commentService{core: c},
		Like:     &interactionService{core: c, coll: storage.LikeCollection, counter: entities.LikeCounter},
		Favorite: &interactionService{core: c, coll: storage.FavoriteCollection, counter: entities.FavoriteCounter},
		Follower: &followerService{core: c},
		Contact:  &contactService{core: c},
		Profile:  &profileService{core: c},
	}
}

// envelope binds payload to its author, so equal payloads of different wallets get different hashes.
type envelope struct {
	Wallet string      `json:"wallet"`
	Data   interface{} `json:"data"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// verify checks the wallet and its signature of the data.
func (c *core) verify(ctx context.Context, wallet string, data interface{}, sig string) error {
	if !entities.IsAddress(wallet) {
		return invalid("malformed wallet %q", wallet)
	}

	ok, err := c.v.Validate(ctx, wallet, data, sig, nil)
	if err != nil {
		return fmt.Errorf("failed to validate signature: %w", err)
	}

	if !ok {
		return service.ErrValidateFailed
	}

	return nil
}

func (c *core) digest(wallet string, data interface{}) (string, error) {
	h, err := c.v.Digest(envelope{Wallet: wallet, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return h, nil
}

func (c *core) newBase(wallet, hash, sig string) entities.Base {
	now := c.now()

	return entities.Base{
		ID:        uuid.New(),
		Hash:      hash,
		Wallet:    wallet,
		Signature: sig,
		CreatedAt: now,
		UpdatedAt: now,
		Deleted:   entities.Active,
	}
}

// tombstone deletes the caller's active record.
func (c *core) tombstone(ctx context.Context, coll storage.Collection, wallet string, b entities.Base, marker uuid.UUID) error {
	if err := c.g.CheckUpdate(ctx, coll, wallet); err != nil {
		return err
	}

	if err := b.Tombstone(marker); err != nil {
		return invalid("%s", err)
	}

	if err := c.s.Delete(ctx, coll, &b); err != nil {
		return storageError(coll, "delete", err)
	}

	log.WithFields(logrus.Fields{
		"collection": coll,
		"wallet":     wallet,
		"id":         b.ID,
		"hash":       b.Hash,
	}).Info("record deleted")

	return nil
}

// adjust changes the counter of content and converts engine errors to service ones.
func (c *core) adjust(ctx context.Context, t resolver.Target, name entities.Counter, delta int64) error {
	err := c.c.Adjust(ctx, t, name, delta)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, counter.ErrInvalidDelta), errors.Is(err, counter.ErrUnknownCounter):
		return fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	default:
		return err
	}
}

// view increments view counter of the comment. Failures are logged only.
func (c *core) view(ctx context.Context, cm *entities.Comment) {
	if err := c.c.Adjust(ctx, resolver.CommentTarget(cm), entities.ViewCounter, 1); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"id":   cm.ID,
			"hash": cm.Hash,
		}).Warn("failed to increment view counter")
	}
}

func checkDelete(d service.DeleteData) error {
	if d.Deleted != entities.DeleteMarker {
		return invalid("deleted should be %s", entities.DeleteMarker)
	}
	return nil
}

// storageError converts storage errors to service ones.
func storageError(coll storage.Collection, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s", service.ErrNotFound, coll)
	case errors.Is(err, storage.ErrDuplicateKey):
		metrics.Duplicates.WithLabelValues(string(coll)).Inc()
		return fmt.Errorf("%w: %s", service.ErrDuplicate, coll)
	case errors.Is(err, storage.ErrEmptyFilter):
		return invalid("empty selector")
	default:
		return fmt.Errorf("failed to %s %s: %w", op, coll, err)
	}
}

// duplicate returns ErrDuplicate if the lookup found an active record.
func duplicate(coll storage.Collection, err error) error {
	switch {
	case err == nil:
		metrics.Duplicates.WithLabelValues(string(coll)).Inc()
		return fmt.Errorf("%w: %s", service.ErrDuplicate, coll)
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check duplicate %s: %w", coll, err)
	}
}

// contentFilter locates the caller's post or comment by hash or id.
func contentFilter(wallet string, d service.DeleteData) (storage.Filter, error) {
	switch {
	case d.Hash != "":
		return storage.Filter{Hash: d.Hash, Wallet: wallet}, nil
	case d.ID != uuid.Nil:
		return storage.Filter{ID: d.ID, Wallet: wallet}, nil
	default:
		return storage.Filter{}, invalid("hash or id is required")
	}
}

// oneFilter converts selector of a single record lookup into storage filter.
func oneFilter(sel service.Selector) (storage.Filter, error) {
	switch sel.By {
	case service.ByID:
		if sel.ID == uuid.Nil {
			return storage.Filter{}, invalid("id is required")
		}
		return storage.Filter{ID: sel.ID}, nil
	case service.ByHash:
		if sel.Hash == "" {
			return storage.Filter{}, invalid("hash is required")
		}
		return storage.Filter{Hash: sel.Hash}, nil
	default:
		return storage.Filter{}, invalid("unknown selector %q", sel.By)
	}
}

func walletOf(caller string, sel service.Selector) (string, error) {
	w := sel.Wallet
	if w == "" {
		w = caller
	}

	if !entities.IsAddress(w) {
		return "", invalid("malformed wallet %q", w)
	}

	return entities.NormalizeAddress(w), nil
}

// normalize lower-cases addresses of the selector.
func normalize(sel service.Selector) service.Selector {
	sel.Wallet = entities.NormalizeAddress(sel.Wallet)
	sel.Address = entities.NormalizeAddress(sel.Address)
	sel.Wallets = lo.Map(sel.Wallets, func(w string, _ int) string {
		return entities.NormalizeAddress(w)
	})

	return sel
}
