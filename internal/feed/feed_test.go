package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
	"github.com/Decentr-net/agora/internal/storage/memory"
	"github.com/Decentr-net/agora/internal/storage/mock"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
	carol = "0x3333333333333333333333333333333333333333"
	dave  = "0x4444444444444444444444444444444444444444"
)

// nolint:gochecknoglobals
var epoch = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

func base(wallet, hash string, minute int) entities.Base {
	ts := epoch.Add(time.Duration(minute) * time.Minute)
	return entities.Base{ID: uuid.New(), Hash: hash, Wallet: wallet, CreatedAt: ts, UpdatedAt: ts}
}

func seed(t *testing.T) storage.Storage {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.CreatePost(ctx, &entities.Post{Base: base(alice, "a1", 1)}))
	require.NoError(t, s.CreatePost(ctx, &entities.Post{Base: base(bob, "b1", 2)}))
	require.NoError(t, s.CreatePost(ctx, &entities.Post{Base: base(carol, "c1", 3)}))
	require.NoError(t, s.CreatePost(ctx, &entities.Post{Base: base(bob, "b2", 4)}))

	// dave follows bob and then carol
	require.NoError(t, s.CreateFollower(ctx, &entities.Follower{Base: base(dave, "f1", 5), Address: bob}))
	require.NoError(t, s.CreateFollower(ctx, &entities.Follower{Base: base(dave, "f2", 6), Address: carol}))

	require.NoError(t, s.CreateInteraction(ctx, storage.LikeCollection, &entities.Interaction{
		Base:    base(dave, "l1", 7),
		RefKind: entities.PostRefKind,
		RefHash: "b2",
	}))

	return s
}

func hashes(p *service.Page[*entities.Post]) []string {
	out := make([]string, 0, len(p.List))
	for _, v := range p.List {
		out = append(out, v.Hash)
	}
	return out
}

func TestFeed_Recommended(t *testing.T) {
	s := seed(t)
	f := New(s, NewAnnotator(s), 0)

	page, err := f.Recommended(context.Background(), "", service.Selector{})
	require.NoError(t, err)
	require.EqualValues(t, 4, page.Total)
	require.Equal(t, []string{"b2", "c1", "b1", "a1"}, hashes(page))

	page, err = f.Recommended(context.Background(), "", service.Selector{PageNo: 2, PageSize: 3, OrderBy: "asc"})
	require.NoError(t, err)
	require.EqualValues(t, 4, page.Total)
	require.Equal(t, []string{"b2"}, hashes(page))

	_, err = f.Recommended(context.Background(), "", service.Selector{OrderBy: "random"})
	require.True(t, errors.Is(err, service.ErrInvalidInput))
}

func TestFeed_Recommended_Annotated(t *testing.T) {
	s := seed(t)
	f := New(s, NewAnnotator(s), 0)

	page, err := f.Recommended(context.Background(), dave, service.Selector{})
	require.NoError(t, err)

	for _, p := range page.List {
		require.Equal(t, p.Hash == "b2", p.IsLiked, p.Hash)
		require.False(t, p.IsFavorited)
	}
}

func TestFeed_Followee(t *testing.T) {
	s := seed(t)

	tt := []struct {
		name   string
		limit  uint64
		wallet string
		sel    service.Selector

		hashes []string
		err    error
	}{
		{
			name:   "all",
			wallet: dave,
			hashes: []string{"b2", "c1", "b1"},
		},
		{
			name:   "limited_to_latest_follow",
			limit:  1,
			wallet: dave,
			hashes: []string{"c1"},
		},
		{
			name:   "selector_wallet",
			sel:    service.Selector{Wallet: dave, PageSize: 1},
			hashes: []string{"b2"},
		},
		{
			name:   "follows_nobody",
			wallet: alice,
			hashes: []string{},
		},
		{
			name:   "invalid_wallet",
			wallet: "dave",
			err:    service.ErrInvalidInput,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			f := New(s, NewAnnotator(s), tc.limit)

			page, err := f.Followee(context.Background(), tc.wallet, tc.sel)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.hashes, hashes(page))
		})
	}
}

func TestFeed_Followee_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockStorage(ctrl)

	s.EXPECT().ListFollowers(gomock.Any(), &storage.ListParams{
		Wallets: []string{dave},
		SortBy:  storage.CreatedAtSortType,
		OrderBy: storage.DescendingOrder,
		Limit:   DefaultFolloweeLimit,
	}).Return(nil, uint64(0), context.Canceled)

	_, err := New(s, NewAnnotator(s), 0).Followee(context.Background(), dave, service.Selector{})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestAnnotator_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockStorage(ctrl)

	s.EXPECT().GetInteraction(gomock.Any(), storage.LikeCollection, gomock.Any()).Return(nil, context.Canceled)
	s.EXPECT().GetInteraction(gomock.Any(), storage.FavoriteCollection, gomock.Any()).Return(&entities.Interaction{}, nil)

	var v entities.Viewer
	NewAnnotator(s).Annotate(context.Background(), dave, entities.PostRefKind, "p", &v)
	require.False(t, v.IsLiked)
	require.True(t, v.IsFavorited)
}
