package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

var ctx = context.Background()

func newBase(wallet, hash string, createdAt time.Time) entities.Base {
	return entities.Base{
		ID:        uuid.New(),
		Hash:      hash,
		Wallet:    wallet,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStore_Lifecycle(t *testing.T) {
	s := New()

	require.Error(t, s.Ping(ctx))
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Error(t, s.Ping(ctx))
}

func TestStore_Post(t *testing.T) {
	s := New()

	p := entities.Post{Base: newBase("wallet", "hash", time.Now()), Content: "content"}
	require.NoError(t, s.CreatePost(ctx, &p))
	require.Equal(t, storage.ErrDuplicateKey, s.CreatePost(ctx, &entities.Post{Base: newBase("wallet", "hash", time.Now())}))

	got, err := s.GetPost(ctx, storage.Filter{Hash: "hash"})
	require.NoError(t, err)
	require.Equal(t, p, *got)

	// returned records are copies
	got.Content = "changed"
	again, err := s.GetPost(ctx, storage.Filter{ID: p.ID})
	require.NoError(t, err)
	require.Equal(t, "content", again.Content)

	_, err = s.GetPost(ctx, storage.Filter{})
	require.Equal(t, storage.ErrEmptyFilter, err)

	_, err = s.GetPost(ctx, storage.Filter{Hash: "unknown"})
	require.Equal(t, storage.ErrNotFound, err)
}

func TestStore_Delete(t *testing.T) {
	s := New()

	i := entities.Interaction{Base: newBase("w", "h", time.Now()), RefKind: entities.PostRefKind, RefHash: "p"}
	require.NoError(t, s.CreateInteraction(ctx, storage.LikeCollection, &i))

	b := i.Base
	require.Equal(t, entities.ErrInvalidTombstone, s.Delete(ctx, storage.LikeCollection, &b))

	require.NoError(t, b.Tombstone(entities.DeleteMarker))
	require.NoError(t, s.Delete(ctx, storage.LikeCollection, &b))
	require.Equal(t, storage.ErrNotFound, s.Delete(ctx, storage.LikeCollection, &b))

	_, err := s.GetInteraction(ctx, storage.LikeCollection, storage.Filter{Hash: "h"})
	require.Equal(t, storage.ErrNotFound, err)

	// the triple and the hash are free again
	fresh := entities.Interaction{Base: newBase("w", "h", time.Now()), RefKind: entities.PostRefKind, RefHash: "p"}
	require.NoError(t, s.CreateInteraction(ctx, storage.LikeCollection, &fresh))
	require.Equal(t, storage.ErrDuplicateKey, s.CreateInteraction(ctx, storage.LikeCollection, &entities.Interaction{
		Base: newBase("w", "h2", time.Now()), RefKind: entities.PostRefKind, RefHash: "p",
	}))

	got, err := s.GetInteraction(ctx, storage.LikeCollection, storage.Filter{Wallet: "w", RefKind: entities.PostRefKind, RefHash: "p"})
	require.NoError(t, err)
	require.Equal(t, fresh.ID, got.ID)
}

func TestStore_SetCounter(t *testing.T) {
	s := New()

	c := entities.Comment{Base: newBase("w", "c", time.Unix(1, 0)), PostHash: "p"}
	require.NoError(t, s.CreateComment(ctx, &c))

	ok, err := s.SetCounter(ctx, storage.CommentCollection, c.ID, entities.ChildrenCounter, 0, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.SetCounter(ctx, storage.CommentCollection, c.ID, entities.ChildrenCounter, 0, 1)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.SetCounter(ctx, storage.CommentCollection, c.ID, entities.ReplyCounter, 0, 1)
	require.Equal(t, storage.ErrUnknownCounter, err)

	ok, err = s.SetCounter(ctx, storage.CommentCollection, uuid.New(), entities.ChildrenCounter, 0, 1)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.GetComment(ctx, storage.Filter{ID: c.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, got.ChildrenCount)
	require.True(t, got.UpdatedAt.After(c.UpdatedAt))
}

func TestStore_LastWrite(t *testing.T) {
	s := New()

	last, err := s.LastWrite(ctx, storage.FollowerCollection, "w", storage.CreatedAtField)
	require.NoError(t, err)
	require.True(t, last.IsZero())

	require.NoError(t, s.CreateFollower(ctx, &entities.Follower{Base: newBase("w", "1", time.Unix(10, 0)), Address: "a"}))
	require.NoError(t, s.CreateFollower(ctx, &entities.Follower{Base: newBase("w", "2", time.Unix(5, 0)), Address: "b"}))
	require.NoError(t, s.CreateFollower(ctx, &entities.Follower{Base: newBase("x", "3", time.Unix(50, 0)), Address: "b"}))

	last, err = s.LastWrite(ctx, storage.FollowerCollection, "w", storage.CreatedAtField)
	require.NoError(t, err)
	require.EqualValues(t, 10, last.Unix())

	_, err = s.LastWrite(ctx, "unknown", "w", storage.CreatedAtField)
	require.Error(t, err)
}

func TestStore_ListComments(t *testing.T) {
	s := New()

	require.NoError(t, s.CreateComment(ctx, &entities.Comment{Base: newBase("1", "c1", time.Unix(1, 0)), PostHash: "p"}))
	require.NoError(t, s.CreateComment(ctx, &entities.Comment{Base: newBase("2", "c2", time.Unix(2, 0)), PostHash: "p"}))
	require.NoError(t, s.CreateComment(ctx, &entities.Comment{Base: newBase("3", "c3", time.Unix(3, 0)), PostHash: "p", ParentHash: "c1"}))
	require.NoError(t, s.CreateComment(ctx, &entities.Comment{Base: newBase("3", "c4", time.Unix(4, 0)), PostHash: "other"}))

	top := ""
	child := "c1"

	tt := []struct {
		name   string
		p      storage.ListParams
		hashes []string
		total  uint64
	}{
		{
			name:   "top_level",
			p:      storage.ListParams{PostHash: "p", Parent: &top, Limit: 10},
			hashes: []string{"c2", "c1"},
			total:  2,
		},
		{
			name:   "children",
			p:      storage.ListParams{PostHash: "p", Parent: &child, Limit: 10},
			hashes: []string{"c3"},
			total:  1,
		},
		{
			name:   "wallet",
			p:      storage.ListParams{Wallets: []string{"3"}, OrderBy: storage.AscendingOrder, Limit: 10},
			hashes: []string{"c3", "c4"},
			total:  2,
		},
		{
			name:   "page",
			p:      storage.ListParams{Limit: 2, Offset: 1},
			hashes: []string{"c3", "c2"},
			total:  4,
		},
		{
			name:  "out_of_range",
			p:     storage.ListParams{Limit: 2, Offset: 10},
			total: 4,
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			cc, total, err := s.ListComments(ctx, &tc.p)
			require.NoError(t, err)
			require.Equal(t, tc.total, total)
			require.Len(t, cc, len(tc.hashes))
			for i, v := range tc.hashes {
				require.Equal(t, v, cc[i].Hash)
			}
		})
	}
}

func TestStore_ListPosts_Sort(t *testing.T) {
	s := New()

	for i, likes := range []int64{5, 1, 3} {
		p := entities.Post{Base: newBase("w", string(rune('a'+i)), time.Unix(int64(i), 0))}
		p.Like = likes
		require.NoError(t, s.CreatePost(ctx, &p))
	}

	pp, _, err := s.ListPosts(ctx, &storage.ListParams{SortBy: storage.LikeSortType, OrderBy: storage.DescendingOrder})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c", "b"}, []string{pp[0].Hash, pp[1].Hash, pp[2].Hash})
}

func TestStore_ContactProfile(t *testing.T) {
	s := New()

	c := entities.Contact{Base: newBase("1", "c1", time.Now()), Address: "2", Remark: "old"}
	require.NoError(t, s.CreateContact(ctx, &c))
	require.Equal(t, storage.ErrDuplicateKey, s.CreateContact(ctx, &entities.Contact{Base: newBase("1", "c2", time.Now()), Address: "2"}))

	c.Remark = "new"
	require.NoError(t, s.UpdateContact(ctx, &c))

	got, err := s.GetContact(ctx, storage.Filter{Wallet: "1", Address: "2"})
	require.NoError(t, err)
	require.Equal(t, "new", got.Remark)

	p := entities.Profile{Base: newBase("1", "p1", time.Now()), Nickname: "nick"}
	require.NoError(t, s.CreateProfile(ctx, &p))
	require.Equal(t, storage.ErrDuplicateKey, s.CreateProfile(ctx, &entities.Profile{Base: newBase("1", "p2", time.Now())}))

	p.ID = uuid.New()
	require.Equal(t, storage.ErrNotFound, s.UpdateProfile(ctx, &p))
}
