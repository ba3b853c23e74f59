package impl

import (
	"context"
	"errors"
	"fmt"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

type contactService struct {
	*core
}

func (s *contactService) Add(ctx context.Context, wallet string, data service.ContactData, sig string) (*entities.Contact, error) {
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

	_, err = s.s.GetContact(ctx, storage.Filter{Wallet: wallet, Address: data.Address})
	if err := duplicate(storage.ContactCollection, err); err != nil {
		return nil, err
	}

	if err := s.g.CheckCreate(ctx, storage.ContactCollection, wallet); err != nil {
		return nil, err
	}

	c := &entities.Contact{
		Base:    s.newBase(wallet, hash, sig),
		Address: data.Address,
		Remark:  data.Remark,
	}

	if err := s.s.CreateContact(ctx, c); err != nil {
		return nil, storageError(storage.ContactCollection, "create", err)
	}

	log.WithField("wallet", wallet).WithField("address", data.Address).Info("contact created")

	return c, nil
}

// Update replaces remark of the caller's contact.
func (s *contactService) Update(ctx context.Context, wallet string, data service.ContactData, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return err
	}

	if !entities.IsAddress(data.Address) {
		return invalid("malformed address %q", data.Address)
	}
	data.Address = entities.NormalizeAddress(data.Address)

	c, err := s.s.GetContact(ctx, storage.Filter{Wallet: wallet, Address: data.Address})
	if err != nil {
		return storageError(storage.ContactCollection, "get", err)
	}

	if err := s.g.CheckUpdate(ctx, storage.ContactCollection, wallet); err != nil {
		return err
	}

	if c.Hash, err = s.digest(wallet, data); err != nil {
		return err
	}
	c.Remark, c.Signature = data.Remark, sig

	if err := s.s.UpdateContact(ctx, c); err != nil {
		return storageError(storage.ContactCollection, "update", err)
	}

	return nil
}

func (s *contactService) UpdateFor(_ context.Context, _ string, _ service.FieldPatch, _ string) error {
	return service.ErrUpdatingBanned
}

func (s *contactService) Delete(ctx context.Context, wallet string, data service.DeleteData, sig string) error {
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
		c, err := s.s.GetContact(ctx, f)
		if err == nil {
			return s.tombstone(ctx, storage.ContactCollection, wallet, c.Base, data.Deleted)
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return storageError(storage.ContactCollection, "get", err)
		}
	}

	return fmt.Errorf("%w: %s", service.ErrNotFound, storage.ContactCollection)
}

func (s *contactService) QueryOne(ctx context.Context, wallet string, sel service.Selector) (*entities.Contact, error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	f, err := addressOneFilter(wallet, sel)
	if err != nil {
		return nil, err
	}

	c, err := s.s.GetContact(ctx, f)
	if err != nil {
		return nil, storageError(storage.ContactCollection, "get", err)
	}

	return c, nil
}

func (s *contactService) QueryList(ctx context.Context, wallet string, sel service.Selector) (*service.Page[*entities.Contact], error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	if sel.By != service.ByWallet {
		return nil, invalid("unknown selector %q", sel.By)
	}

	w, err := walletOf(wallet, sel)
	if err != nil {
		return nil, err
	}

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}
	p.Wallets = []string{w}

	list, total, err := s.s.ListContacts(ctx, p)
	if err != nil {
		return nil, storageError(storage.ContactCollection, "list", err)
	}

	return service.NewPage(sel, list, total), nil
}
