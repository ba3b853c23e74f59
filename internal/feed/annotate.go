package feed

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

// Annotator sets viewer flags of content records.
type Annotator struct {
	s storage.Storage
}

// NewAnnotator returns new instance of Annotator.
func NewAnnotator(s storage.Storage) *Annotator {
	return &Annotator{s: s}
}

// Annotate sets flags telling whether the wallet has active like and favorite on the content.
// Nothing is done when the wallet is not a valid address. Lookup failures leave flags unset.
func (a *Annotator) Annotate(ctx context.Context, wallet string, kind entities.RefKind, hash string, v *entities.Viewer) {
	if !entities.IsAddress(wallet) {
		return
	}

	v.IsLiked = a.has(ctx, storage.LikeCollection, wallet, kind, hash)
	v.IsFavorited = a.has(ctx, storage.FavoriteCollection, wallet, kind, hash)
}

// Posts annotates every post concurrently.
func (a *Annotator) Posts(ctx context.Context, wallet string, posts []*entities.Post) {
	if !entities.IsAddress(wallet) {
		return
	}

	var gr errgroup.Group
	for i := range posts {
		p := posts[i]
		gr.Go(func() error {
			a.Annotate(ctx, wallet, entities.PostRefKind, p.Hash, &p.Viewer)
			return nil
		})
	}
	gr.Wait() // nolint:errcheck
}

// Comments annotates every comment concurrently.
func (a *Annotator) Comments(ctx context.Context, wallet string, comments []*entities.Comment) {
	if !entities.IsAddress(wallet) {
		return
	}

	var gr errgroup.Group
	for i := range comments {
		c := comments[i]
		gr.Go(func() error {
			a.Annotate(ctx, wallet, entities.CommentRefKind, c.Hash, &c.Viewer)
			return nil
		})
	}
	gr.Wait() // nolint:errcheck
}

func (a *Annotator) has(ctx context.Context, c storage.Collection, wallet string, kind entities.RefKind, hash string) bool {
	_, err := a.s.GetInteraction(ctx, c, storage.Filter{Wallet: entities.NormalizeAddress(wallet), RefKind: kind, RefHash: hash})
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrNotFound):
		return false
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"collection": c,
			"wallet":     wallet,
			"refKind":    kind,
			"refHash":    hash,
		}).Error("failed to get interaction")
		return false
	}
}
