package memory

import (
	"fmt"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

func errUnknownCollection(c storage.Collection) error {
	return fmt.Errorf("unknown collection %q", c)
}

func statisticValue(s *entities.Statistics, t storage.SortType) int64 {
	switch t {
	case storage.ViewSortType:
		return s.View
	case storage.LikeSortType:
		return s.Like
	case storage.FavoriteSortType:
		return s.Favorite
	default:
		return 0
	}
}

func newPostTable() *table[entities.Post] {
	return &table[entities.Post]{
		base: func(p *entities.Post) *entities.Base { return &p.Base },
		match: func(p *entities.Post, f storage.Filter) bool {
			return matchBase(&p.Base, f)
		},
		list: func(*entities.Post, *storage.ListParams) bool { return true },
		unique: func(p *entities.Post) []string {
			return []string{key(&p.Base, p.Hash)}
		},
		sortBy: func(p *entities.Post, t storage.SortType) int64 {
			return statisticValue(&p.Statistics, t)
		},
	}
}

func newCommentTable() *table[entities.Comment] {
	return &table[entities.Comment]{
		base: func(c *entities.Comment) *entities.Base { return &c.Base },
		match: func(c *entities.Comment, f storage.Filter) bool {
			return matchBase(&c.Base, f)
		},
		list: func(c *entities.Comment, p *storage.ListParams) bool {
			return (p.PostHash == "" || p.PostHash == c.PostHash) &&
				(p.Parent == nil || *p.Parent == c.ParentHash)
		},
		unique: func(c *entities.Comment) []string {
			return []string{key(&c.Base, c.Hash)}
		},
		sortBy: func(c *entities.Comment, t storage.SortType) int64 {
			return statisticValue(&c.Statistics, t)
		},
	}
}

func newInteractionTable() *table[entities.Interaction] {
	return &table[entities.Interaction]{
		base: func(i *entities.Interaction) *entities.Base { return &i.Base },
		match: func(i *entities.Interaction, f storage.Filter) bool {
			return matchBase(&i.Base, f) &&
				(f.RefKind == "" || f.RefKind == i.RefKind) &&
				(f.RefHash == "" || f.RefHash == i.RefHash)
		},
		list: func(i *entities.Interaction, p *storage.ListParams) bool {
			return (p.RefKind == "" || p.RefKind == i.RefKind) &&
				(p.RefHash == "" || p.RefHash == i.RefHash)
		},
		unique: func(i *entities.Interaction) []string {
			return []string{
				key(&i.Base, i.Hash),
				key(&i.Base, i.Wallet, string(i.RefKind), i.RefHash),
			}
		},
	}
}

func newFollowerTable() *table[entities.Follower] {
	return &table[entities.Follower]{
		base: func(f *entities.Follower) *entities.Base { return &f.Base },
		match: func(r *entities.Follower, f storage.Filter) bool {
			return matchBase(&r.Base, f) && (f.Address == "" || f.Address == r.Address)
		},
		list: func(r *entities.Follower, p *storage.ListParams) bool {
			return p.Address == "" || p.Address == r.Address
		},
		unique: func(r *entities.Follower) []string {
			return []string{
				key(&r.Base, r.Hash),
				key(&r.Base, r.Wallet, r.Address),
			}
		},
	}
}

func newContactTable() *table[entities.Contact] {
	return &table[entities.Contact]{
		base: func(c *entities.Contact) *entities.Base { return &c.Base },
		match: func(r *entities.Contact, f storage.Filter) bool {
			return matchBase(&r.Base, f) && (f.Address == "" || f.Address == r.Address)
		},
		list: func(r *entities.Contact, p *storage.ListParams) bool {
			return p.Address == "" || p.Address == r.Address
		},
		unique: func(r *entities.Contact) []string {
			return []string{
				key(&r.Base, r.Hash),
				key(&r.Base, r.Wallet, r.Address),
			}
		},
	}
}

func newProfileTable() *table[entities.Profile] {
	return &table[entities.Profile]{
		base: func(p *entities.Profile) *entities.Base { return &p.Base },
		match: func(p *entities.Profile, f storage.Filter) bool {
			return matchBase(&p.Base, f)
		},
		list: func(*entities.Profile, *storage.ListParams) bool { return true },
		unique: func(p *entities.Profile) []string {
			return []string{
				key(&p.Base, p.Hash),
				key(&p.Base, p.Wallet),
			}
		},
	}
}
