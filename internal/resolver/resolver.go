// Package resolver locates content records interactions refer to.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

var (
	// ErrUnknownRefKind is returned when reference kind is neither post nor comment.
	ErrUnknownRefKind = errors.New("unknown reference kind")
	// ErrOriginNotFound is returned when there is no active content with requested hash.
	ErrOriginNotFound = errors.New("origin not found")
)

// Target is a content record of one of the reference kinds.
// Exactly one of Post and Comment is set according to Kind.
type Target struct {
	Kind    entities.RefKind
	Post    *entities.Post
	Comment *entities.Comment
}

// PostTarget ...
func PostTarget(p *entities.Post) Target {
	return Target{Kind: entities.PostRefKind, Post: p}
}

// CommentTarget ...
func CommentTarget(c *entities.Comment) Target {
	return Target{Kind: entities.CommentRefKind, Comment: c}
}

// Base returns common fields of the record.
func (t Target) Base() *entities.Base {
	switch t.Kind {
	case entities.PostRefKind:
		return &t.Post.Base
	case entities.CommentRefKind:
		return &t.Comment.Base
	default:
		return &entities.Base{}
	}
}

// ID ...
func (t Target) ID() uuid.UUID {
	return t.Base().ID
}

// Owner returns wallet of the content author.
func (t Target) Owner() string {
	return t.Base().Wallet
}

// Collection returns collection the record is stored in.
func (t Target) Collection() storage.Collection {
	c, _ := Collection(t.Kind) // nolint:errcheck
	return c
}

// Counter returns value of the counter and false if the record has no such counter.
func (t Target) Counter(c entities.Counter) (int64, bool) {
	switch t.Kind {
	case entities.PostRefKind:
		return t.Post.Counter(c)
	case entities.CommentRefKind:
		return t.Comment.Counter(c)
	default:
		return 0, false
	}
}

// Public returns the record as it is exposed to clients.
func (t Target) Public() interface{} {
	switch t.Kind {
	case entities.PostRefKind:
		return t.Post
	case entities.CommentRefKind:
		return t.Comment
	default:
		return nil
	}
}

// Collection returns collection of the reference kind.
func Collection(kind entities.RefKind) (storage.Collection, error) {
	switch kind {
	case entities.PostRefKind:
		return storage.PostCollection, nil
	case entities.CommentRefKind:
		return storage.CommentCollection, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRefKind, kind)
	}
}

// Resolver looks up active content by reference.
type Resolver struct {
	s storage.Storage
}

// New returns new instance of Resolver.
func New(s storage.Storage) *Resolver {
	return &Resolver{s: s}
}

// Resolve returns active content record of the kind with the hash.
func (r *Resolver) Resolve(ctx context.Context, kind entities.RefKind, hash string) (Target, error) {
	if hash == "" {
		return Target{}, ErrOriginNotFound
	}

	return r.find(ctx, kind, storage.Filter{Hash: hash})
}

// Reload reads the current state of the active target record.
func (r *Resolver) Reload(ctx context.Context, t Target) (Target, error) {
	if t.ID() == uuid.Nil {
		return Target{}, ErrOriginNotFound
	}

	return r.find(ctx, t.Kind, storage.Filter{ID: t.ID()})
}

func (r *Resolver) find(ctx context.Context, kind entities.RefKind, f storage.Filter) (Target, error) {
	var (
		t   Target
		err error
	)

	switch kind {
	case entities.PostRefKind:
		var p *entities.Post
		if p, err = r.s.GetPost(ctx, f); err == nil {
			t = PostTarget(p)
		}
	case entities.CommentRefKind:
		var c *entities.Comment
		if c, err = r.s.GetComment(ctx, f); err == nil {
			t = CommentTarget(c)
		}
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownRefKind, kind)
	}

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Target{}, ErrOriginNotFound
		}
		return Target{}, fmt.Errorf("failed to get %s: %w", kind, err)
	}

	return t, nil
}
