package impl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
	"github.com/Decentr-net/agora/internal/throttle"
)

func TestInteraction_Add(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p := e.post(t, alice, "post")
	c := e.comment(t, alice, p.Hash, "", "comment")

	l, err := e.srv.Like.Add(ctx, bob, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
	require.NoError(t, err)
	require.Equal(t, bob, l.Wallet)
	require.True(t, entities.IsHash(l.Hash))
	require.NotNil(t, l.RefData)

	_, err = e.srv.Like.Add(ctx, bob, service.InteractionData{RefKind: entities.CommentRefKind, RefHash: c.Hash}, sig)
	require.NoError(t, err)

	_, err = e.srv.Like.Add(ctx, carol, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
	require.NoError(t, err)

	require.EqualValues(t, 2, e.getPost(t, p.Hash).Like)
	require.EqualValues(t, 0, e.getPost(t, p.Hash).Favorite)

	cm, err := e.s.GetComment(ctx, storage.Filter{Hash: c.Hash})
	require.NoError(t, err)
	require.EqualValues(t, 1, cm.Like)
}

func TestInteraction_Add_Invalid(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p := e.post(t, alice, "post")

	tt := []struct {
		name string
		data service.InteractionData
		err  error
	}{
		{
			name: "unknown_kind",
			data: service.InteractionData{RefKind: "profile", RefHash: p.Hash},
			err:  service.ErrInvalidInput,
		},
		{
			name: "empty_hash",
			data: service.InteractionData{RefKind: entities.PostRefKind},
			err:  service.ErrInvalidInput,
		},
		{
			name: "origin_not_found",
			data: service.InteractionData{RefKind: entities.PostRefKind, RefHash: "0x01"},
			err:  service.ErrOriginNotFound,
		},
		{
			name: "wrong_kind",
			data: service.InteractionData{RefKind: entities.CommentRefKind, RefHash: p.Hash},
			err:  service.ErrOriginNotFound,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			_, err := e.srv.Like.Add(ctx, bob, tc.data, sig)
			require.True(t, errors.Is(err, tc.err), err)

			_, total, err := e.s.ListInteractions(ctx, storage.LikeCollection, &storage.ListParams{})
			require.NoError(t, err)
			require.Zero(t, total)
		})
	}
}

func TestInteraction_Add_Duplicate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p := e.post(t, alice, "post")
	data := service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}

	_, err := e.srv.Like.Add(ctx, bob, data, sig)
	require.NoError(t, err)

	_, err = e.srv.Like.Add(ctx, bob, data, sig)
	require.True(t, errors.Is(err, service.ErrDuplicate))

	_, total, err := e.s.ListInteractions(ctx, storage.LikeCollection, &storage.ListParams{RefHash: p.Hash})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	// favorites are independent of likes
	_, err = e.srv.Favorite.Add(ctx, bob, data, sig)
	require.NoError(t, err)
}

// Counter adjustment is gated by the author's latest update, so the like is kept while its counter is not.
func TestInteraction_Add_CounterFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)

	p := e.post(t, alice, "post")

	_, err := e.srv.Like.Add(ctx, bob, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
	require.True(t, errors.Is(err, throttle.ErrTooFrequent), err)

	_, err = e.s.GetInteraction(ctx, storage.LikeCollection, storage.Filter{Wallet: bob, RefHash: p.Hash})
	require.NoError(t, err)
	require.EqualValues(t, 0, e.getPost(t, p.Hash).Like)
}

func TestInteraction_Delete(t *testing.T) {
	ctx := context.Background()

	tt := []struct {
		name string
		data func(i *entities.Interaction) service.DeleteData
		err  error
	}{
		{
			name: "by_hash",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{Hash: i.Hash, Deleted: entities.DeleteMarker}
			},
		},
		{
			name: "by_ref",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{RefKind: i.RefKind, RefHash: i.RefHash, Deleted: entities.DeleteMarker}
			},
		},
		{
			name: "by_id",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{ID: i.ID, Deleted: entities.DeleteMarker}
			},
		},
		{
			name: "fallback_to_id",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{Hash: "0x01", ID: i.ID, Deleted: entities.DeleteMarker}
			},
		},
		{
			name: "not_found",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{ID: uuid.New(), Deleted: entities.DeleteMarker}
			},
			err: service.ErrNotFound,
		},
		{
			name: "empty",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{Deleted: entities.DeleteMarker}
			},
			err: service.ErrInvalidInput,
		},
		{
			name: "wrong_marker",
			data: func(i *entities.Interaction) service.DeleteData {
				return service.DeleteData{Hash: i.Hash, Deleted: i.ID}
			},
			err: service.ErrInvalidInput,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t, true)

			p := e.post(t, alice, "post")
			l, err := e.srv.Like.Add(ctx, bob, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
			require.NoError(t, err)

			err = e.srv.Like.Delete(ctx, bob, tc.data(l), sig)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), err)
				return
			}
			require.NoError(t, err)

			_, err = e.s.GetInteraction(ctx, storage.LikeCollection, storage.Filter{ID: l.ID})
			require.True(t, errors.Is(err, storage.ErrNotFound))

			// no decrement on removal
			require.EqualValues(t, 1, e.getPost(t, p.Hash).Like)
		})
	}
}

func TestInteraction_Delete_Foreign(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p := e.post(t, alice, "post")
	l, err := e.srv.Like.Add(ctx, bob, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
	require.NoError(t, err)

	err = e.srv.Like.Delete(ctx, carol, del(l.Hash), sig)
	require.True(t, errors.Is(err, service.ErrNotFound))
}

func TestInteraction_Update(t *testing.T) {
	e := newEnv(t, true)

	require.Equal(t, service.ErrUpdatingBanned, e.srv.Like.Update(context.Background(), bob, service.InteractionData{}, sig))
	require.Equal(t, service.ErrUpdatingBanned, e.srv.Favorite.UpdateFor(context.Background(), bob, service.FieldPatch{}, sig))
}

func TestInteraction_QueryOne(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p := e.post(t, alice, "post")
	l, err := e.srv.Like.Add(ctx, bob, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
	require.NoError(t, err)

	tt := []struct {
		name   string
		wallet string
		sel    service.Selector
		err    error
	}{
		{name: "by_id", sel: service.Selector{By: service.ByID, ID: l.ID}},
		{name: "by_hash", sel: service.Selector{By: service.ByHash, Hash: l.Hash}},
		{
			name: "by_wallet_and_hash",
			sel:  service.Selector{By: service.ByWalletAndHash, Wallet: bob, RefKind: entities.PostRefKind, RefHash: p.Hash},
		},
		{
			name:   "by_caller_and_hash",
			wallet: bob,
			sel:    service.Selector{By: service.ByWalletAndHash, RefKind: entities.PostRefKind, RefHash: p.Hash},
		},
		{
			name: "other_wallet",
			sel:  service.Selector{By: service.ByWalletAndHash, Wallet: carol, RefKind: entities.PostRefKind, RefHash: p.Hash},
			err:  service.ErrNotFound,
		},
		{name: "no_id", sel: service.Selector{By: service.ByID}, err: service.ErrInvalidInput},
		{name: "unknown", sel: service.Selector{By: "refData"}, err: service.ErrInvalidInput},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := e.srv.Like.QueryOne(ctx, tc.wallet, tc.sel)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, l.ID, got.ID)
			ref, ok := got.RefData.(*entities.Post)
			require.True(t, ok)
			require.Equal(t, p.Hash, ref.Hash)
			require.EqualValues(t, 1, ref.Like)
		})
	}
}

func TestInteraction_QueryOne_RefRemoved(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p := e.post(t, alice, "post")
	l, err := e.srv.Favorite.Add(ctx, bob, service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}, sig)
	require.NoError(t, err)

	require.NoError(t, e.srv.Post.Delete(ctx, alice, del(p.Hash), sig))

	got, err := e.srv.Favorite.QueryOne(ctx, bob, service.Selector{By: service.ByHash, Hash: l.Hash})
	require.NoError(t, err)
	require.Nil(t, got.RefData)
}

func TestInteraction_QueryList(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	p1 := e.post(t, alice, "first")
	p2 := e.post(t, alice, "second")
	c := e.comment(t, alice, p1.Hash, "", "comment")

	like := func(wallet string, kind entities.RefKind, hash string) {
		_, err := e.srv.Like.Add(ctx, wallet, service.InteractionData{RefKind: kind, RefHash: hash}, sig)
		require.NoError(t, err)
	}

	like(bob, entities.PostRefKind, p1.Hash)
	like(bob, entities.PostRefKind, p2.Hash)
	like(bob, entities.CommentRefKind, c.Hash)
	like(carol, entities.PostRefKind, p1.Hash)

	tt := []struct {
		name  string
		sel   service.Selector
		total uint64
		len   int
		err   error
	}{
		{name: "wallet", sel: service.Selector{By: service.ByWallet, Wallet: bob}, total: 3, len: 3},
		{name: "wallet_posts", sel: service.Selector{By: service.ByWallet, Wallet: bob, RefKind: entities.PostRefKind}, total: 2, len: 2},
		{name: "wallet_page", sel: service.Selector{By: service.ByWallet, Wallet: bob, PageNo: 2, PageSize: 2}, total: 3, len: 1},
		{name: "ref_hash", sel: service.Selector{By: service.ByRefHash, RefKind: entities.PostRefKind, RefHash: p1.Hash}, total: 2, len: 2},
		{name: "ref_hash_without_kind", sel: service.Selector{By: service.ByRefHash, RefHash: p1.Hash}, err: service.ErrInvalidInput},
		{name: "unknown", sel: service.Selector{By: service.ByHash}, err: service.ErrInvalidInput},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			page, err := e.srv.Like.QueryList(ctx, "", tc.sel)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.total, page.Total)
			require.Len(t, page.List, tc.len)
			for _, v := range page.List {
				require.NotNil(t, v.RefData)
			}
		})
	}
}

func TestInteraction_Add_WalletCase(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	const (
		lower = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
		upper = "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD"
	)

	p := e.post(t, alice, "post")
	data := service.InteractionData{RefKind: entities.PostRefKind, RefHash: p.Hash}

	l, err := e.srv.Like.Add(ctx, upper, data, sig)
	require.NoError(t, err)
	require.Equal(t, lower, l.Wallet)

	_, err = e.srv.Like.Add(ctx, lower, data, sig)
	require.True(t, errors.Is(err, service.ErrDuplicate), err)

	_, err = e.srv.Like.Add(ctx, upper, data, sig)
	require.True(t, errors.Is(err, service.ErrDuplicate), err)

	require.EqualValues(t, 1, e.getPost(t, p.Hash).Like)

	got, err := e.srv.Post.QueryOne(ctx, "0xAbCdEfabcdefabcdefabcdefabcdefabcdefabcd", service.Selector{By: service.ByHash, Hash: p.Hash})
	require.NoError(t, err)
	require.True(t, got.IsLiked)

	require.NoError(t, e.srv.Like.Delete(ctx, lower, service.DeleteData{
		RefKind: entities.PostRefKind,
		RefHash: p.Hash,
		Deleted: entities.DeleteMarker,
	}, sig))
}
