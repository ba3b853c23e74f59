package impl

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/feed"
	"github.com/Decentr-net/agora/internal/resolver"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

// nolint:gochecknoglobals
var postCounters = map[entities.Counter]bool{
	entities.RepostCounter: true,
	entities.QuoteCounter:  true,
	entities.ReplyCounter:  true,
}

type postService struct {
	*core

	feed *feed.Feed
}

func (s *postService) Add(ctx context.Context, wallet string, data service.PostData, sig string) (*entities.Post, error) {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return nil, err
	}

	if data.Content == "" && len(data.Images) == 0 {
		return nil, invalid("content or images are required")
	}

	hash, err := s.digest(wallet, data)
	if err != nil {
		return nil, err
	}

	if err := s.g.CheckCreate(ctx, storage.PostCollection, wallet); err != nil {
		return nil, err
	}

	p := &entities.Post{
		Base:    s.newBase(wallet, hash, sig),
		Content: data.Content,
		Images:  data.Images,
	}

	if err := s.s.CreatePost(ctx, p); err != nil {
		return nil, storageError(storage.PostCollection, "create", err)
	}

	log.WithField("wallet", wallet).WithField("hash", hash).Info("post created")

	return p, nil
}

func (s *postService) Update(_ context.Context, _ string, _ service.PostData, _ string) error {
	return service.ErrUpdatingBanned
}

func (s *postService) UpdateFor(ctx context.Context, wallet string, patch service.CounterPatch, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, patch, sig); err != nil {
		return err
	}

	if !postCounters[patch.Counter] {
		return invalid("counter %q can not be patched", patch.Counter)
	}

	p, err := s.s.GetPost(ctx, storage.Filter{Hash: patch.Hash})
	if err != nil {
		return storageError(storage.PostCollection, "get", err)
	}

	if err := s.adjust(ctx, resolver.PostTarget(p), patch.Counter, patch.Delta); err != nil {
		if errors.Is(err, resolver.ErrOriginNotFound) {
			return service.ErrNotFound
		}
		return err
	}

	return nil
}

func (s *postService) Delete(ctx context.Context, wallet string, data service.DeleteData, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return err
	}

	if err := checkDelete(data); err != nil {
		return err
	}

	f, err := contentFilter(wallet, data)
	if err != nil {
		return err
	}

	p, err := s.s.GetPost(ctx, f)
	if err != nil {
		return storageError(storage.PostCollection, "get", err)
	}

	return s.tombstone(ctx, storage.PostCollection, wallet, p.Base, data.Deleted)
}

func (s *postService) QueryOne(ctx context.Context, wallet string, sel service.Selector) (*entities.Post, error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	f, err := oneFilter(sel)
	if err != nil {
		return nil, err
	}

	p, err := s.s.GetPost(ctx, f)
	if err != nil {
		return nil, storageError(storage.PostCollection, "get", err)
	}

	s.a.Annotate(ctx, wallet, entities.PostRefKind, p.Hash, &p.Viewer)

	return p, nil
}

func (s *postService) QueryList(ctx context.Context, wallet string, sel service.Selector) (*service.Page[*entities.Post], error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	switch sel.By {
	case service.ByRecommend:
		return s.feed.Recommended(ctx, wallet, sel)
	case service.ByFollowee:
		return s.feed.Followee(ctx, wallet, sel)
	case service.ByWallet:
	default:
		return nil, invalid("unknown selector %q", sel.By)
	}

	if !entities.IsAddress(sel.Wallet) {
		return nil, invalid("malformed wallet %q", sel.Wallet)
	}

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}
	p.Wallets = []string{sel.Wallet}

	posts, total, err := s.s.ListPosts(ctx, p)
	if err != nil {
		return nil, storageError(storage.PostCollection, "list", err)
	}

	s.a.Posts(ctx, wallet, posts)

	log.WithFields(logrus.Fields{"wallet": sel.Wallet, "total": total}).Debug("posts listed")

	return service.NewPage(sel, posts, total), nil
}
