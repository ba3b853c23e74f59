package impl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
)

func TestContact(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)

	c, err := e.srv.Contact.Add(ctx, alice, service.ContactData{Address: bob, Remark: "Bob"}, sig)
	require.NoError(t, err)
	require.Equal(t, "Bob", c.Remark)

	_, err = e.srv.Contact.Add(ctx, alice, service.ContactData{Address: bob, Remark: "Bobby"}, sig)
	require.True(t, errors.Is(err, service.ErrDuplicate))

	_, err = e.srv.Contact.Add(ctx, alice, service.ContactData{Address: alice}, sig)
	require.True(t, errors.Is(err, service.ErrInvalidInput))

	require.NoError(t, e.srv.Contact.Update(ctx, alice, service.ContactData{Address: bob, Remark: "Bobby"}, sig))

	got, err := e.srv.Contact.QueryOne(ctx, alice, service.Selector{By: service.ByWalletAndAddress, Address: bob})
	require.NoError(t, err)
	require.Equal(t, "Bobby", got.Remark)
	require.Equal(t, c.ID, got.ID)
	require.NotEqual(t, c.Hash, got.Hash)

	err = e.srv.Contact.Update(ctx, alice, service.ContactData{Address: carol, Remark: "Carol"}, sig)
	require.True(t, errors.Is(err, service.ErrNotFound))

	require.Equal(t, service.ErrUpdatingBanned, e.srv.Contact.UpdateFor(ctx, alice, service.FieldPatch{Field: "remark"}, sig))

	_, err = e.srv.Contact.Add(ctx, alice, service.ContactData{Address: carol, Remark: "Carol"}, sig)
	require.NoError(t, err)

	page, err := e.srv.Contact.QueryList(ctx, alice, service.Selector{By: service.ByWallet})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	require.NoError(t, e.srv.Contact.Delete(ctx, alice, service.DeleteData{Address: bob, Deleted: entities.DeleteMarker}, sig))

	page, err = e.srv.Contact.QueryList(ctx, alice, service.Selector{By: service.ByWallet})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, carol, page.List[0].Address)

	_, err = e.srv.Contact.QueryList(ctx, alice, service.Selector{By: service.ByAddress, Address: bob})
	require.True(t, errors.Is(err, service.ErrInvalidInput))
}
