package impl

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/resolver"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

// interactionService serves likes or favorites depending on collection.
type interactionService struct {
	*core

	coll    storage.Collection
	counter entities.Counter
}

func checkRef(kind entities.RefKind, hash string) error {
	if !entities.IsRefKind(kind) {
		return invalid("unknown refKind %q", kind)
	}
	if hash == "" {
		return invalid("refHash is required")
	}
	return nil
}

// Add creates interaction and increments the counter of referenced content.
// The interaction stays created if the increment fails.
func (s *interactionService) Add(ctx context.Context, wallet string, data service.InteractionData, sig string) (*entities.Interaction, error) {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return nil, err
	}

	if err := checkRef(data.RefKind, data.RefHash); err != nil {
		return nil, err
	}

	hash, err := s.digest(wallet, data)
	if err != nil {
		return nil, err
	}

	target, err := s.r.Resolve(ctx, data.RefKind, data.RefHash)
	if err != nil {
		return nil, err
	}

	_, err = s.s.GetInteraction(ctx, s.coll, storage.Filter{Wallet: wallet, RefKind: data.RefKind, RefHash: data.RefHash})
	if err := duplicate(s.coll, err); err != nil {
		return nil, err
	}

	if err := s.g.CheckCreate(ctx, s.coll, wallet); err != nil {
		return nil, err
	}

	i := &entities.Interaction{
		Base:    s.newBase(wallet, hash, sig),
		RefKind: data.RefKind,
		RefHash: data.RefHash,
	}

	if err := s.s.CreateInteraction(ctx, s.coll, i); err != nil {
		return nil, storageError(s.coll, "create", err)
	}

	l := log.WithFields(logrus.Fields{
		"collection": s.coll,
		"wallet":     wallet,
		"refKind":    data.RefKind,
		"refHash":    data.RefHash,
	})
	l.Info("interaction created")

	if err := s.adjust(ctx, target, s.counter, 1); err != nil {
		l.WithError(err).Error("failed to increment counter")
		return nil, fmt.Errorf("failed to increment %s: %w", s.counter, err)
	}

	i.RefData = target.Public()

	return i, nil
}

func (s *interactionService) Update(_ context.Context, _ string, _ service.InteractionData, _ string) error {
	return service.ErrUpdatingBanned
}

func (s *interactionService) UpdateFor(_ context.Context, _ string, _ service.FieldPatch, _ string) error {
	return service.ErrUpdatingBanned
}

// Delete removes the caller's interaction. The counter of referenced content is left as it is.
func (s *interactionService) Delete(ctx context.Context, wallet string, data service.DeleteData, sig string) error {
	wallet = entities.NormalizeAddress(wallet)

	if err := s.verify(ctx, wallet, data, sig); err != nil {
		return err
	}

	if err := checkDelete(data); err != nil {
		return err
	}

	i, err := s.locate(ctx, wallet, data)
	if err != nil {
		return err
	}

	return s.tombstone(ctx, s.coll, wallet, i.Base, data.Deleted)
}

// locate looks the caller's interaction up by hash, by reference and by id in this order.
func (s *interactionService) locate(ctx context.Context, wallet string, data service.DeleteData) (*entities.Interaction, error) {
	var filters []storage.Filter
	if data.Hash != "" {
		filters = append(filters, storage.Filter{Wallet: wallet, Hash: data.Hash})
	}
	if data.RefKind != "" && data.RefHash != "" {
		filters = append(filters, storage.Filter{Wallet: wallet, RefKind: data.RefKind, RefHash: data.RefHash})
	}
	if data.ID != uuid.Nil {
		filters = append(filters, storage.Filter{Wallet: wallet, ID: data.ID})
	}

	if len(filters) == 0 {
		return nil, invalid("hash, reference or id is required")
	}

	for _, f := range filters {
		i, err := s.s.GetInteraction(ctx, s.coll, f)
		if err == nil {
			return i, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, storageError(s.coll, "get", err)
		}
	}

	return nil, fmt.Errorf("%w: %s", service.ErrNotFound, s.coll)
}

func (s *interactionService) QueryOne(ctx context.Context, wallet string, sel service.Selector) (*entities.Interaction, error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	var (
		f   storage.Filter
		err error
	)

	if sel.By == service.ByWalletAndHash {
		w, err := walletOf(wallet, sel)
		if err != nil {
			return nil, err
		}
		if err := checkRef(sel.RefKind, sel.RefHash); err != nil {
			return nil, err
		}
		f = storage.Filter{Wallet: w, RefKind: sel.RefKind, RefHash: sel.RefHash}
	} else if f, err = oneFilter(sel); err != nil {
		return nil, err
	}

	i, err := s.s.GetInteraction(ctx, s.coll, f)
	if err != nil {
		return nil, storageError(s.coll, "get", err)
	}

	s.attach(ctx, i)

	return i, nil
}

func (s *interactionService) QueryList(ctx context.Context, wallet string, sel service.Selector) (*service.Page[*entities.Interaction], error) {
	wallet = entities.NormalizeAddress(wallet)
	sel = normalize(sel)

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}

	switch sel.By {
	case service.ByWallet:
		w, err := walletOf(wallet, sel)
		if err != nil {
			return nil, err
		}
		if sel.RefKind != "" && !entities.IsRefKind(sel.RefKind) {
			return nil, invalid("unknown refKind %q", sel.RefKind)
		}
		p.Wallets, p.RefKind = []string{w}, sel.RefKind
	case service.ByRefHash:
		if err := checkRef(sel.RefKind, sel.RefHash); err != nil {
			return nil, err
		}
		p.RefKind, p.RefHash = sel.RefKind, sel.RefHash
	default:
		return nil, invalid("unknown selector %q", sel.By)
	}

	list, total, err := s.s.ListInteractions(ctx, s.coll, p)
	if err != nil {
		return nil, storageError(s.coll, "list", err)
	}

	for _, i := range list {
		s.attach(ctx, i)
	}

	return service.NewPage(sel, list, total), nil
}

// attach sets current state of referenced content. RefData stays empty if the content was removed.
func (s *interactionService) attach(ctx context.Context, i *entities.Interaction) {
	t, err := s.r.Resolve(ctx, i.RefKind, i.RefHash)
	switch {
	case err == nil:
		i.RefData = t.Public()
	case errors.Is(err, resolver.ErrOriginNotFound):
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"collection": s.coll,
			"id":         i.ID,
			"refKind":    i.RefKind,
			"refHash":    i.RefHash,
		}).Error("failed to resolve reference")
	}
}
