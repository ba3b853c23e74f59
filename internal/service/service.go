// Package service contains interfaces of service business-logic.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/resolver"
	"github.com/Decentr-net/agora/internal/throttle"
)

// nolint:gochecknoglobals
var (
	// ErrInvalidInput is returned when request contains malformed wallet, hash, enum or misses required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrValidateFailed is returned when signature does not match the payload.
	ErrValidateFailed = errors.New("failed to validate")
	// ErrTooFrequent is returned when the wallet writes too often.
	ErrTooFrequent = throttle.ErrTooFrequent
	// ErrDuplicate is returned when an active record with the same unique keys already exists.
	ErrDuplicate = errors.New("duplicate")
	// ErrNotFound is returned when requested record does not exist or was deleted.
	ErrNotFound = errors.New("not found")
	// ErrOriginNotFound is returned when referenced content does not exist or was deleted.
	ErrOriginNotFound = resolver.ErrOriginNotFound
	// ErrUpdatingBanned is returned on update of append-only records.
	ErrUpdatingBanned = errors.New("updating banned")
)

// Selector kinds.
const (
	ByID               = "id"
	ByHash             = "hash"
	ByWalletAndHash    = "walletAndHash"
	ByWalletAndAddress = "walletAndAddress"
	ByWallet           = "wallet"
	ByWallets          = "wallets"
	ByAddress          = "address"
	ByRefHash          = "refHash"
	ByPostHash         = "postHash"
	ByParentHash       = "parentHash"
	ByRecommend        = "recommend"
	ByFollowee         = "followee"
)

// Selector is a tagged lookup request. By chooses lookup strategy and the rest are its parameters.
type Selector struct {
	By string `json:"by"`

	ID         uuid.UUID        `json:"id"`
	Hash       string           `json:"hash"`
	Wallet     string           `json:"wallet"`
	Wallets    []string         `json:"wallets"`
	Address    string           `json:"address"`
	RefKind    entities.RefKind `json:"refKind"`
	RefHash    string           `json:"refHash"`
	PostHash   string           `json:"postHash"`
	ParentHash string           `json:"parentHash"`

	PageNo   uint64 `json:"pageNo"`
	PageSize uint64 `json:"pageSize"`
	SortBy   string `json:"sortBy"`
	OrderBy  string `json:"orderBy"`
}

// Page is a page of list query results.
type Page[T any] struct {
	Total    uint64 `json:"total"`
	PageNo   uint64 `json:"pageNo"`
	PageSize uint64 `json:"pageSize"`
	List     []T    `json:"list"`
}

// PostData is a payload of new post.
type PostData struct {
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// CommentData is a payload of new comment.
type CommentData struct {
	PostHash   string `json:"postHash"`
	ParentHash string `json:"parentHash,omitempty"`
	Content    string `json:"content"`
}

// InteractionData is a payload of like or favorite.
type InteractionData struct {
	RefKind entities.RefKind `json:"refKind"`
	RefHash string           `json:"refHash"`
}

// FollowerData ...
type FollowerData struct {
	Address string `json:"address"`
}

// ContactData ...
type ContactData struct {
	Address string `json:"address"`
	Remark  string `json:"remark"`
}

// ProfileData ...
type ProfileData struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

// DeleteData points at the caller's record to delete. Deleted should be equal to entities.DeleteMarker.
// Record is located by the first set of Hash, (RefKind, RefHash) or Address, and ID.
type DeleteData struct {
	ID      uuid.UUID        `json:"id"`
	Hash    string           `json:"hash"`
	RefKind entities.RefKind `json:"refKind,omitempty"`
	RefHash string           `json:"refHash,omitempty"`
	Address string           `json:"address,omitempty"`
	Deleted uuid.UUID        `json:"deleted"`
}

// CounterPatch changes counter of the content record by Delta which is 1 or -1.
type CounterPatch struct {
	Hash    string           `json:"hash"`
	Counter entities.Counter `json:"counter"`
	Delta   int64            `json:"delta"`
}

// FieldPatch replaces one field of the record.
type FieldPatch struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// PostService ...
type PostService interface {
	Add(ctx context.Context, wallet string, data PostData, signature string) (*entities.Post, error)
	Update(ctx context.Context, wallet string, data PostData, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch CounterPatch, signature string) error
	Delete(ctx context.Context, wallet string, data DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s Selector) (*entities.Post, error)
	QueryList(ctx context.Context, wallet string, s Selector) (*Page[*entities.Post], error)
}

// CommentService ...
type CommentService interface {
	Add(ctx context.Context, wallet string, data CommentData, signature string) (*entities.Comment, error)
	Update(ctx context.Context, wallet string, data CommentData, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch CounterPatch, signature string) error
	Delete(ctx context.Context, wallet string, data DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s Selector) (*entities.Comment, error)
	QueryList(ctx context.Context, wallet string, s Selector) (*Page[*entities.Comment], error)
}

// InteractionService is implemented by likes and favorites.
type InteractionService interface {
	Add(ctx context.Context, wallet string, data InteractionData, signature string) (*entities.Interaction, error)
	Update(ctx context.Context, wallet string, data InteractionData, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch FieldPatch, signature string) error
	Delete(ctx context.Context, wallet string, data DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s Selector) (*entities.Interaction, error)
	QueryList(ctx context.Context, wallet string, s Selector) (*Page[*entities.Interaction], error)
}

// FollowerService ...
type FollowerService interface {
	Add(ctx context.Context, wallet string, data FollowerData, signature string) (*entities.Follower, error)
	Update(ctx context.Context, wallet string, data FollowerData, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch FieldPatch, signature string) error
	Delete(ctx context.Context, wallet string, data DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s Selector) (*entities.Follower, error)
	QueryList(ctx context.Context, wallet string, s Selector) (*Page[*entities.Follower], error)
}

// ContactService ...
type ContactService interface {
	Add(ctx context.Context, wallet string, data ContactData, signature string) (*entities.Contact, error)
	Update(ctx context.Context, wallet string, data ContactData, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch FieldPatch, signature string) error
	Delete(ctx context.Context, wallet string, data DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s Selector) (*entities.Contact, error)
	QueryList(ctx context.Context, wallet string, s Selector) (*Page[*entities.Contact], error)
}

// ProfileService ...
type ProfileService interface {
	Add(ctx context.Context, wallet string, data ProfileData, signature string) (*entities.Profile, error)
	Update(ctx context.Context, wallet string, data ProfileData, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch FieldPatch, signature string) error
	Delete(ctx context.Context, wallet string, data DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s Selector) (*entities.Profile, error)
	QueryList(ctx context.Context, wallet string, s Selector) (*Page[*entities.Profile], error)
}

// Services is a set of services of every entity.
type Services struct {
	Post     PostService
	Comment  CommentService
	Like     InteractionService
	Favorite InteractionService
	Follower FollowerService
	Contact  ContactService
	Profile  ProfileService
}
