package impl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

type followerService struct {
	*core
}

func checkAddress(wallet, address string) error {
	if !entities.IsAddress(address) {
		return invalid("malformed address %q", address)
	}
	if entities.NormalizeAddress(address) == entities.NormalizeAddress(wallet) {
		return invalid("address should differ from wallet")
	}
	return nil
}

// addressFilters returns lookups of the caller's record by hash, by address and by id in this order.
func addressFilters(wallet string, data service.DeleteData) ([]storage.Filter, error) {
	var filters []storage.Filter
	if data.Hash != "" {
		filters = append(filters, storage.Filter{Wallet: wallet, Hash: data.Hash})
	}
	if data.Address != "" {
		filters = append(filters, storage.Filter{Wallet: wallet, Address: entities.NormalizeAddress(data.Address)})
	}
	if data.ID != uuid.Nil {
		filters = append(filters, storage.Filter{Wallet: wallet, ID: data.ID})
	}

	if len(filters) == 0 {
		return nil, invalid("hash, address or id is required")
	}

	return filters, nil
}

// addressOneFilter converts selector of a single follower or contact into storage filter.
func addressOneFilter(caller string, sel service.Selector) (storage.Filter, error) {
	if sel.By != service.ByWalletAndAddress {
		return oneFilter(sel)
	}

	w, err := walletOf(caller, sel)
	if err != nil {
		return storage.Filter{}, err
	}

	if !entities.IsAddress(sel.Address) {
		return storage.Filter{}, invalid("malformed address %q", sel.Address)
	}

	return storage.Filter{Wallet: w, Address: entities.NormalizeAddress(sel.Address)}, nil
}

func (s *followerService) Add(ctx context.Context, wallet string, data service.FollowerData, sig string) (*entities.Follower, error) {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return nil, err
	}

	if err := checkAddress(wallet, data.Address); err != nil {
		return nil, err
	}
	data.Address = entities.NormalizeAddress(data.Address)

	hash, err := s.digest(wallet, data)
	if err != nil {
		return nil, err
	}

	_, err = s.s.GetFollower(ctx, storage.Filter{Wallet: wallet, Address: data.Address})
	if err := duplicate(storage.FollowerCollection, err); err != nil {
		return nil, err
	}

	if err := s.g.CheckCreate(ctx, storage.FollowerCollection, wallet); err != nil {
		return nil, err
	}

	f := &entities.Follower{
		Base:    s.newBase(wallet, hash, sig),
		Address: data.Address,
	}

	if err := s.s.CreateFollower(ctx, f); err != nil {
		return nil, storageError(storage.FollowerCollection, "create", err)
	}

	log.WithField("wallet", wallet).WithField("address", data.Address).Info("followed")

	return f, nil
}

func (s *followerService) Update(_ context.Context, _ string, _ service.FollowerData, _ string) error {
	return service.ErrUpdatingBanned
}

func (s *followerService) UpdateFor(_ context.Context, _ string, _ service.FieldPatch, _ string) error {
	return service.ErrUpdatingBanned
}

func (s *followerService) Delete(ctx context.Context, wallet string, data service.DeleteData, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return err
	}

	if err := checkDelete(data); err != nil {
		return err
	}

	filters, err := addressFilters(wallet, data)
	if err != nil {
		return err
	}

	for _, f := range filters {
		r, err := s.s.GetFollower(ctx, f)
		if err == nil {
			return s.tombstone(ctx, storage.FollowerCollection, wallet, r.Base, data.Deleted)
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return storageError(storage.FollowerCollection, "get", err)
		}
	}

	return fmt.Errorf("%w: %s", service.ErrNotFound, storage.FollowerCollection)
}

func (s *followerService) QueryOne(ctx context.Context, wallet string, sel service.Selector) (*entities.Follower, error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	f, err := addressOneFilter(wallet, sel)
	if err != nil {
		return nil, err
	}

	r, err := s.s.GetFollower(ctx, f)
	if err != nil {
		return nil, storageError(storage.FollowerCollection, "get", err)
	}

	return r, nil
}

// QueryList returns addresses followed by the wallet or followers of the address.
func (s *followerService) QueryList(ctx context.Context, _ string, sel service.Selector) (*service.Page[*entities.Follower], error) {
	sel = normalize(sel)

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}

	switch sel.By {
	case service.ByWallet:
		if !entities.IsAddress(sel.Wallet) {
			return nil, invalid("malformed wallet %q", sel.Wallet)
		}
		p.Wallets = []string{sel.Wallet}
	case service.ByAddress:
		if !entities.IsAddress(sel.Address) {
			return nil, invalid("malformed address %q", sel.Address)
		}
		p.Address = sel.Address
	default:
		return nil, invalid("unknown selector %q", sel.By)
	}

	list, total, err := s.s.ListFollowers(ctx, p)
	if err != nil {
		return nil, storageError(storage.FollowerCollection, "list", err)
	}

	return service.NewPage(sel, list, total), nil
}
