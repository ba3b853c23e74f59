package impl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
)

func TestFollower_Add(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	f, err := e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: bob}, sig)
	require.NoError(t, err)
	require.Equal(t, bob, f.Address)

	_, err = e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: bob}, sig)
	require.True(t, errors.Is(err, service.ErrDuplicate))

	_, err = e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: alice}, sig)
	require.True(t, errors.Is(err, service.ErrInvalidInput))

	_, err = e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: "bob"}, sig)
	require.True(t, errors.Is(err, service.ErrInvalidInput))

	require.Equal(t, service.ErrUpdatingBanned, e.srv.Follower.Update(ctx, alice, service.FollowerData{Address: bob}, sig))
	require.Equal(t, service.ErrUpdatingBanned, e.srv.Follower.UpdateFor(ctx, alice, service.FieldPatch{}, sig))
}

func TestFollower_Delete(t *testing.T) {
	ctx := context.Background()

	tt := []struct {
		name string
		data func(f *entities.Follower) service.DeleteData
		err  error
	}{
		{
			name: "by_hash",
			data: func(f *entities.Follower) service.DeleteData { return del(f.Hash) },
		},
		{
			name: "by_address",
			data: func(f *entities.Follower) service.DeleteData {
				return service.DeleteData{Address: f.Address, Deleted: entities.DeleteMarker}
			},
		},
		{
			name: "by_id",
			data: func(f *entities.Follower) service.DeleteData {
				return service.DeleteData{ID: f.ID, Deleted: entities.DeleteMarker}
			},
		},
		{
			name: "other_address",
			data: func(f *entities.Follower) service.DeleteData {
				return service.DeleteData{Address: carol, Deleted: entities.DeleteMarker}
			},
			err: service.ErrNotFound,
		},
		{
			name: "nothing",
			data: func(f *entities.Follower) service.DeleteData {
				return service.DeleteData{Deleted: entities.DeleteMarker}
			},
			err: service.ErrInvalidInput,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t, true)

			f, err := e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: bob}, sig)
			require.NoError(t, err)

			err = e.srv.Follower.Delete(ctx, alice, tc.data(f), sig)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), err)
				return
			}
			require.NoError(t, err)

			_, err = e.srv.Follower.QueryOne(ctx, alice, service.Selector{By: service.ByWalletAndAddress, Address: bob})
			require.True(t, errors.Is(err, service.ErrNotFound))

			// follow again after unfollow
			_, err = e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: bob}, sig)
			require.NoError(t, err)
		})
	}
}

func TestFollower_Query(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	follow := func(wallet, address string) *entities.Follower {
		f, err := e.srv.Follower.Add(ctx, wallet, service.FollowerData{Address: address}, sig)
		require.NoError(t, err)
		return f
	}

	f := follow(alice, bob)
	follow(alice, carol)
	follow(carol, bob)

	got, err := e.srv.Follower.QueryOne(ctx, "", service.Selector{By: service.ByHash, Hash: f.Hash})
	require.NoError(t, err)
	require.Equal(t, f.ID, got.ID)

	got, err = e.srv.Follower.QueryOne(ctx, "", service.Selector{By: service.ByWalletAndAddress, Wallet: alice, Address: bob})
	require.NoError(t, err)
	require.Equal(t, f.ID, got.ID)

	_, err = e.srv.Follower.QueryOne(ctx, "", service.Selector{By: service.ByWalletAndAddress, Wallet: alice})
	require.True(t, errors.Is(err, service.ErrInvalidInput))

	page, err := e.srv.Follower.QueryList(ctx, "", service.Selector{By: service.ByWallet, Wallet: alice})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	page, err = e.srv.Follower.QueryList(ctx, "", service.Selector{By: service.ByAddress, Address: bob})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	_, err = e.srv.Follower.QueryList(ctx, "", service.Selector{By: service.ByAddress})
	require.True(t, errors.Is(err, service.ErrInvalidInput))
}

func TestFollower_Add_AddressCase(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	const (
		lower = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
		upper = "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD"
	)

	f, err := e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: upper}, sig)
	require.NoError(t, err)
	require.Equal(t, lower, f.Address)

	_, err = e.srv.Follower.Add(ctx, alice, service.FollowerData{Address: lower}, sig)
	require.True(t, errors.Is(err, service.ErrDuplicate), err)

	_, err = e.srv.Follower.Add(ctx, upper, service.FollowerData{Address: lower}, sig)
	require.True(t, errors.Is(err, service.ErrInvalidInput), err)

	got, err := e.srv.Follower.QueryOne(ctx, alice, service.Selector{By: service.ByWalletAndAddress, Address: upper})
	require.NoError(t, err)
	require.Equal(t, f.ID, got.ID)

	page, err := e.srv.Post.QueryList(ctx, "", service.Selector{By: service.ByFollowee, Wallet: alice})
	require.NoError(t, err)
	require.EqualValues(t, 0, page.Total)
}
