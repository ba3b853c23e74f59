package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

// table keeps rows of one collection in insertion order.
type table[T any] struct {
	rows []*T

	base  func(*T) *entities.Base
	match func(*T, storage.Filter) bool
	list  func(*T, *storage.ListParams) bool
	// unique returns values of every uniqueness index of the row. The delete marker is a part of each one.
	unique func(*T) []string
	sortBy func(*T, storage.SortType) int64
}

func (t *table[T]) insert(v *T) error {
	keys := t.unique(v)
	for _, r := range t.rows {
		for i, k := range t.unique(r) {
			if k == keys[i] {
				return storage.ErrDuplicateKey
			}
		}
	}

	cp := *v
	t.rows = append(t.rows, &cp)

	return nil
}

func (t *table[T]) find(f storage.Filter) *T {
	for _, r := range t.rows {
		if t.base(r).IsActive() && t.match(r, f) {
			return r
		}
	}
	return nil
}

func (t *table[T]) get(f storage.Filter) (*T, error) {
	if f.IsEmpty() {
		return nil, storage.ErrEmptyFilter
	}

	r := t.find(f)
	if r == nil {
		return nil, storage.ErrNotFound
	}

	cp := *r
	return &cp, nil
}

func (t *table[T]) byID(id uuid.UUID) *T {
	return t.find(storage.Filter{ID: id})
}

func (t *table[T]) selectRows(p *storage.ListParams) ([]*T, uint64) {
	var out []*T
	for _, r := range t.rows {
		if t.base(r).IsActive() && inWallets(t.base(r).Wallet, p.Wallets) && t.list(r, p) {
			cp := *r
			out = append(out, &cp)
		}
	}

	sortType := p.SortBy
	if sortType == "" {
		sortType = storage.CreatedAtSortType
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := t.value(out[i], sortType), t.value(out[j], sortType)
		if p.OrderBy == storage.AscendingOrder {
			return a < b
		}
		return a > b
	})

	total := uint64(len(out))
	if p.Offset >= total {
		return []*T{}, total
	}

	out = out[p.Offset:]
	if p.Limit > 0 && uint64(len(out)) > p.Limit {
		out = out[:p.Limit]
	}

	return out, total
}

func (t *table[T]) value(r *T, s storage.SortType) int64 {
	switch s {
	case storage.CreatedAtSortType:
		return t.base(r).CreatedAt.UnixNano()
	case storage.UpdatedAtSortType:
		return t.base(r).UpdatedAt.UnixNano()
	default:
		if t.sortBy == nil {
			return 0
		}
		return t.sortBy(r, s)
	}
}

func (t *table[T]) lastWrite(wallet string, f storage.TimeField) time.Time {
	var last time.Time
	for _, r := range t.rows {
		b := t.base(r)
		if b.Wallet != wallet {
			continue
		}

		v := b.CreatedAt
		if f == storage.UpdatedAtField {
			v = b.UpdatedAt
		}

		if v.After(last) {
			last = v
		}
	}
	return last
}

func (t *table[T]) tombstone(b *entities.Base, now time.Time) error {
	if !b.IsTombstone() {
		return entities.ErrInvalidTombstone
	}

	r := t.byID(b.ID)
	if r == nil {
		return storage.ErrNotFound
	}

	rb := t.base(r)
	rb.Deleted = b.ID
	rb.UpdatedAt = now

	return nil
}

func inWallets(w string, wallets []string) bool {
	if len(wallets) == 0 {
		return true
	}
	for _, v := range wallets {
		if v == w {
			return true
		}
	}
	return false
}

func matchBase(b *entities.Base, f storage.Filter) bool {
	return (f.ID == uuid.Nil || f.ID == b.ID) &&
		(f.Hash == "" || f.Hash == b.Hash) &&
		(f.Wallet == "" || f.Wallet == b.Wallet)
}

func key(b *entities.Base, v ...string) string {
	out := b.Deleted.String()
	for _, s := range v {
		out += "|" + s
	}
	return out
}
