// Package storage contains a storage interface.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

var (
	// ErrNotFound ...
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when a uniqueness index rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrEmptyFilter is returned when a single record lookup has no conditions.
	ErrEmptyFilter = errors.New("empty filter")
	// ErrUnknownCounter is returned when a collection doesn't have the requested counter.
	ErrUnknownCounter = errors.New("unknown counter")
)

// Storage provides methods for interacting with the document store.
// Every lookup returns active records only. Records are never removed, Delete tombstones them.
type Storage interface {
	// Connect establishes the connection. It is safe to call it more than once.
	Connect(ctx context.Context) error
	// Close releases the connection. It is safe to call it more than once.
	Close() error
	Ping(ctx context.Context) error

	// LastWrite returns the latest value of the time field among the wallet's records in the collection,
	// deleted records included. Zero time is returned when the wallet has no records.
	LastWrite(ctx context.Context, c Collection, wallet string, f TimeField) (time.Time, error)
	// Delete tombstones the active record. b.Deleted should already hold the tombstone value.
	Delete(ctx context.Context, c Collection, b *entities.Base) error
	// SetCounter writes value to the counter of the active record if the counter still equals expected.
	// It returns false when nothing was matched.
	SetCounter(ctx context.Context, c Collection, id uuid.UUID, counter entities.Counter, expected, value int64) (bool, error)

	CreatePost(ctx context.Context, p *entities.Post) error
	GetPost(ctx context.Context, f Filter) (*entities.Post, error)
	ListPosts(ctx context.Context, p *ListParams) ([]*entities.Post, uint64, error)

	CreateComment(ctx context.Context, c *entities.Comment) error
	GetComment(ctx context.Context, f Filter) (*entities.Comment, error)
	ListComments(ctx context.Context, p *ListParams) ([]*entities.Comment, uint64, error)

	CreateInteraction(ctx context.Context, c Collection, i *entities.Interaction) error
	GetInteraction(ctx context.Context, c Collection, f Filter) (*entities.Interaction, error)
	ListInteractions(ctx context.Context, c Collection, p *ListParams) ([]*entities.Interaction, uint64, error)

	CreateFollower(ctx context.Context, f *entities.Follower) error
	GetFollower(ctx context.Context, f Filter) (*entities.Follower, error)
	ListFollowers(ctx context.Context, p *ListParams) ([]*entities.Follower, uint64, error)

	CreateContact(ctx context.Context, c *entities.Contact) error
	UpdateContact(ctx context.Context, c *entities.Contact) error
	GetContact(ctx context.Context, f Filter) (*entities.Contact, error)
	ListContacts(ctx context.Context, p *ListParams) ([]*entities.Contact, uint64, error)

	CreateProfile(ctx context.Context, p *entities.Profile) error
	UpdateProfile(ctx context.Context, p *entities.Profile) error
	GetProfile(ctx context.Context, f Filter) (*entities.Profile, error)
	ListProfiles(ctx context.Context, p *ListParams) ([]*entities.Profile, uint64, error)
}

// Collection ...
type Collection string

const (
	// PostCollection ...
	PostCollection Collection = "post"
	// CommentCollection ...
	CommentCollection Collection = "comment"
	// LikeCollection ...
	LikeCollection Collection = "like"
	// FavoriteCollection ...
	FavoriteCollection Collection = "favorite"
	// FollowerCollection ...
	FollowerCollection Collection = "follower"
	// ContactCollection ...
	ContactCollection Collection = "contact"
	// ProfileCollection ...
	ProfileCollection Collection = "profile"
)

// TimeField ...
type TimeField string

const (
	// CreatedAtField ...
	CreatedAtField TimeField = "created_at"
	// UpdatedAtField ...
	UpdatedAtField TimeField = "updated_at"
)

// Filter selects a single active record. Empty fields are ignored.
type Filter struct {
	ID      uuid.UUID
	Hash    string
	Wallet  string
	RefKind entities.RefKind
	RefHash string
	Address string
}

// IsEmpty ...
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// SortType ...
type SortType string

const (
	// CreatedAtSortType ...
	CreatedAtSortType SortType = "createdAt"
	// UpdatedAtSortType ...
	UpdatedAtSortType SortType = "updatedAt"
	// ViewSortType ...
	ViewSortType SortType = "statisticView"
	// LikeSortType ...
	LikeSortType SortType = "statisticLike"
	// FavoriteSortType ...
	FavoriteSortType SortType = "statisticFavorite"
)

// OrderType ...
type OrderType string

const (
	// AscendingOrder ...
	AscendingOrder OrderType = "asc"
	// DescendingOrder ...
	DescendingOrder OrderType = "desc"
)

// ListParams filters active records of a collection. Empty fields are ignored.
type ListParams struct {
	Wallets []string
	// Parent selects comments by parent: nil ignores parent, empty string selects top-level comments.
	Parent   *string
	PostHash string
	RefKind  entities.RefKind
	RefHash  string
	Address  string

	SortBy  SortType
	OrderBy OrderType
	Offset  uint64
	Limit   uint64
}
