package impl

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/resolver"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

// nolint:gochecknoglobals
var commentCounters = map[entities.Counter]bool{
	entities.RepostCounter: true,
	entities.QuoteCounter:  true,
}

type commentService struct {
	*core
}

func (s *commentService) Add(ctx context.Context, wallet string, data service.CommentData, sig string) (*entities.Comment, error) {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return nil, err
	}

	if data.Content == "" {
		return nil, invalid("content is required")
	}

	if data.PostHash == "" {
		return nil, invalid("postHash is required")
	}

	if data.ParentHash != "" && !entities.IsHash(data.ParentHash) {
		return nil, invalid("malformed parentHash %q", data.ParentHash)
	}

	hash, err := s.digest(wallet, data)
	if err != nil {
		return nil, err
	}

	if _, err := s.r.Resolve(ctx, entities.PostRefKind, data.PostHash); err != nil {
		return nil, err
	}

	var parent resolver.Target
	if data.ParentHash != "" {
		if parent, err = s.r.Resolve(ctx, entities.CommentRefKind, data.ParentHash); err != nil {
			return nil, err
		}

		if parent.Comment.PostHash != data.PostHash {
			return nil, invalid("parent comment belongs to another post")
		}
	}

	if err := s.g.CheckCreate(ctx, storage.CommentCollection, wallet); err != nil {
		return nil, err
	}

	c := &entities.Comment{
		Base:       s.newBase(wallet, hash, sig),
		PostHash:   data.PostHash,
		ParentHash: data.ParentHash,
		Content:    data.Content,
	}

	if err := s.s.CreateComment(ctx, c); err != nil {
		return nil, storageError(storage.CommentCollection, "create", err)
	}

	l := log.WithFields(logrus.Fields{"wallet": wallet, "hash": hash, "post": data.PostHash})
	l.Info("comment created")

	if c.IsReply() {
		if err := s.adjust(ctx, parent, entities.ChildrenCounter, 1); err != nil {
			l.WithError(err).WithField("parent", data.ParentHash).Error("failed to increment children count")
			return nil, fmt.Errorf("failed to increment children count: %w", err)
		}
	}

	return c, nil
}

func (s *commentService) Update(_ context.Context, _ string, _ service.CommentData, _ string) error {
	return service.ErrUpdatingBanned
}

func (s *commentService) UpdateFor(ctx context.Context, wallet string, patch service.CounterPatch, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, patch, sig); err != nil {
		return err
	}

	if !commentCounters[patch.Counter] {
		return invalid("counter %q can not be patched", patch.Counter)
	}

	c, err := s.s.GetComment(ctx, storage.Filter{Hash: patch.Hash})
	if err != nil {
		return storageError(storage.CommentCollection, "get", err)
	}

	if err := s.adjust(ctx, resolver.CommentTarget(c), patch.Counter, patch.Delta); err != nil {
		if errors.Is(err, resolver.ErrOriginNotFound) {
			return service.ErrNotFound
		}
		return err
	}

	return nil
}

func (s *commentService) Delete(ctx context.Context, wallet string, data service.DeleteData, sig string) error {
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

	c, err := s.s.GetComment(ctx, f)
	if err != nil {
		return storageError(storage.CommentCollection, "get", err)
	}

	return s.tombstone(ctx, storage.CommentCollection, wallet, c.Base, data.Deleted)
}

// QueryOne returns the comment and increments its view counter.
// The returned comment holds the counter as it was before the increment.
func (s *commentService) QueryOne(ctx context.Context, wallet string, sel service.Selector) (*entities.Comment, error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	f, err := oneFilter(sel)
	if err != nil {
		return nil, err
	}

	c, err := s.s.GetComment(ctx, f)
	if err != nil {
		return nil, storageError(storage.CommentCollection, "get", err)
	}

	s.view(ctx, c)
	s.a.Annotate(ctx, wallet, entities.CommentRefKind, c.Hash, &c.Viewer)

	return c, nil
}

// QueryList returns comments of a post, replies to a comment or comments of a wallet.
// Every returned comment gets its view counter incremented.
func (s *commentService) QueryList(ctx context.Context, wallet string, sel service.Selector) (*service.Page[*entities.Comment], error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}

	switch sel.By {
	case service.ByPostHash:
		if sel.PostHash == "" {
			return nil, invalid("postHash is required")
		}
		topLevel := ""
		p.PostHash, p.Parent = sel.PostHash, &topLevel
	case service.ByParentHash:
		if sel.PostHash == "" || sel.ParentHash == "" {
			return nil, invalid("postHash and parentHash are required")
		}
		parent := sel.ParentHash
		p.PostHash, p.Parent = sel.PostHash, &parent
	case service.ByWallet:
		if !entities.IsAddress(sel.Wallet) {
			return nil, invalid("malformed wallet %q", sel.Wallet)
		}
		p.Wallets = []string{sel.Wallet}
	default:
		return nil, invalid("unknown selector %q", sel.By)
	}

	comments, total, err := s.s.ListComments(ctx, p)
	if err != nil {
		return nil, storageError(storage.CommentCollection, "list", err)
	}

	for _, c := range comments {
		s.view(ctx, c)
	}
	s.a.Comments(ctx, wallet, comments)

	return service.NewPage(sel, comments, total), nil
}
