package impl

import (
	"context"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

// Profile fields which may be patched one by one.
const (
	nicknameField = "nickname"
	avatarField   = "avatar"
	bioField      = "bio"
)

type profileService struct {
	*core
}

func (s *profileService) Add(ctx context.Context, wallet string, data service.ProfileData, sig string) (*entities.Profile, error) {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return nil, err
	}

	if data.Nickname == "" {
		return nil, invalid("nickname is required")
	}

	hash, err := s.digest(wallet, data)
	if err != nil {
		return nil, err
	}

	_, err = s.s.GetProfile(ctx, storage.Filter{Wallet: wallet})
	if err := duplicate(storage.ProfileCollection, err); err != nil {
		return nil, err
	}

	if err := s.g.CheckCreate(ctx, storage.ProfileCollection, wallet); err != nil {
		return nil, err
	}

	p := &entities.Profile{
		Base:     s.newBase(wallet, hash, sig),
		Nickname: data.Nickname,
		Avatar:   data.Avatar,
		Bio:      data.Bio,
	}

	if err := s.s.CreateProfile(ctx, p); err != nil {
		return nil, storageError(storage.ProfileCollection, "create", err)
	}

	log.WithField("wallet", wallet).Info("profile created")

	return p, nil
}

func (s *profileService) Update(ctx context.Context, wallet string, data service.ProfileData, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return err
	}

	if data.Nickname == "" {
		return invalid("nickname is required")
	}

	return s.update(ctx, wallet, sig, func(p *entities.Profile) {
		p.Nickname, p.Avatar, p.Bio = data.Nickname, data.Avatar, data.Bio
	})
}

// UpdateFor replaces one field of the caller's profile.
func (s *profileService) UpdateFor(ctx context.Context, wallet string, patch service.FieldPatch, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, patch, sig); err != nil {
		return err
	}

	var set func(p *entities.Profile)
	switch patch.Field {
	case nicknameField:
		if patch.Value == "" {
			return invalid("nickname is required")
		}
		set = func(p *entities.Profile) { p.Nickname = patch.Value }
	case avatarField:
		set = func(p *entities.Profile) { p.Avatar = patch.Value }
	case bioField:
		set = func(p *entities.Profile) { p.Bio = patch.Value }
	default:
		return invalid("unknown field %q", patch.Field)
	}

	return s.update(ctx, wallet, sig, set)
}

func (s *profileService) update(ctx context.Context, wallet, sig string, set func(p *entities.Profile)) error {
	p, err := s.s.GetProfile(ctx, storage.Filter{Wallet: wallet})
	if err != nil {
		return storageError(storage.ProfileCollection, "get", err)
	}

	if err := s.g.CheckUpdate(ctx, storage.ProfileCollection, wallet); err != nil {
		return err
	}

	set(p)

	p.Signature = sig
	if p.Hash, err = s.digest(wallet, service.ProfileData{Nickname: p.Nickname, Avatar: p.Avatar, Bio: p.Bio}); err != nil {
		return err
	}

	if err := s.s.UpdateProfile(ctx, p); err != nil {
		return storageError(storage.ProfileCollection, "update", err)
	}

	return nil
}

// Delete removes the caller's profile. Without hash and id the wallet's profile is removed.
func (s *profileService) Delete(ctx context.Context, wallet string, data service.DeleteData, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return err
	}

	if err := checkDelete(data); err != nil {
		return err
	}

	f := storage.Filter{Wallet: wallet, Hash: data.Hash}
	if data.Hash == "" && data.ID != uuid.Nil {
		f.ID = data.ID
	}

	p, err := s.s.GetProfile(ctx, f)
	if err != nil {
		return storageError(storage.ProfileCollection, "get", err)
	}

	return s.tombstone(ctx, storage.ProfileCollection, wallet, p.Base, data.Deleted)
}

func (s *profileService) QueryOne(ctx context.Context, wallet string, sel service.Selector) (*entities.Profile, error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	var (
		f   storage.Filter
		err error
	)

	if sel.By == service.ByWallet {
		w, err := walletOf(wallet, sel)
		if err != nil {
			return nil, err
		}
		f = storage.Filter{Wallet: w}
	} else if f, err = oneFilter(sel); err != nil {
		return nil, err
	}

	p, err := s.s.GetProfile(ctx, f)
	if err != nil {
		return nil, storageError(storage.ProfileCollection, "get", err)
	}

	return p, nil
}

func (s *profileService) QueryList(ctx context.Context, _ string, sel service.Selector) (*service.Page[*entities.Profile], error) {
	sel = normalize(sel)

	if sel.By != service.ByWallets {
		return nil, invalid("unknown selector %q", sel.By)
	}

	if len(sel.Wallets) == 0 {
		return nil, invalid("wallets are required")
	}

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}
	p.Wallets = sel.Wallets

	list, total, err := s.s.ListProfiles(ctx, p)
	if err != nil {
		return nil, storageError(storage.ProfileCollection, "list", err)
	}

	return service.NewPage(sel, list, total), nil
}
