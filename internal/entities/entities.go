// Package entities contains main entities of service.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// RefKind is a kind of content an interaction refers to.
type RefKind string

const (
	// PostRefKind ...
	PostRefKind RefKind = "post"
	// CommentRefKind ...
	CommentRefKind RefKind = "comment"
)

// Base is a set of fields every record carries.
type Base struct {
	ID        uuid.UUID `json:"id"`
	Hash      string    `json:"hash"`
	Wallet    string    `json:"wallet"`
	Signature string    `json:"signature"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Deleted   uuid.UUID `json:"deleted"`
}

// Statistics contains counters shared by posts and comments.
type Statistics struct {
	View     int64 `json:"statisticView"`
	Repost   int64 `json:"statisticRepost"`
	Quote    int64 `json:"statisticQuote"`
	Like     int64 `json:"statisticLike"`
	Favorite int64 `json:"statisticFavorite"`
}

// Viewer contains flags describing the requesting wallet's interactions with content.
// They are calculated on every read and never stored.
type Viewer struct {
	IsFavorited bool `json:"isFavorited"`
	IsLiked     bool `json:"isLiked"`
}

// Post ...
type Post struct {
	Base
	Statistics
	Viewer

	Content string   `json:"content"`
	Images  []string `json:"images"`
	Reply   int64    `json:"statisticReply"`
}

// Comment ...
type Comment struct {
	Base
	Statistics
	Viewer

	PostHash      string `json:"postHash"`
	ParentHash    string `json:"parentHash,omitempty"`
	Content       string `json:"content"`
	ChildrenCount int64  `json:"childrenCount"`
}

// IsReply returns true if the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentHash != ""
}

// Interaction is a like or a favorite pointing at a post or a comment.
type Interaction struct {
	Base

	RefKind RefKind `json:"refKind"`
	RefHash string  `json:"refHash"`

	// RefData is the current public state of the referenced content.
	// It is nil when the content was removed by its author.
	RefData interface{} `json:"refData,omitempty"`
}

// Follower links a wallet to an address it follows.
type Follower struct {
	Base

	Address string `json:"address"`
}

// Contact ...
type Contact struct {
	Base

	Address string `json:"address"`
	Remark  string `json:"remark"`
}

// Profile ...
type Profile struct {
	Base

	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}
