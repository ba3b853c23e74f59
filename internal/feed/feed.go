// Package feed contains feeds of posts.
package feed

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/service"
	"github.com/Decentr-net/agora/internal/storage"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "feed").WithField("package", "feed")

// DefaultFolloweeLimit is a maximal number of followed addresses used to build followee feed.
const DefaultFolloweeLimit = 300

// Feed builds pages of posts.
type Feed struct {
	s storage.Storage
	a *Annotator

	followeeLimit uint64
}

// New returns new instance of Feed.
func New(s storage.Storage, a *Annotator, followeeLimit uint64) *Feed {
	if followeeLimit == 0 {
		followeeLimit = DefaultFolloweeLimit
	}

	return &Feed{
		s:             s,
		a:             a,
		followeeLimit: followeeLimit,
	}
}

// Recommended returns page of all active posts.
func (f *Feed) Recommended(ctx context.Context, wallet string, sel service.Selector) (*service.Page[*entities.Post], error) {
	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}

	return f.list(ctx, wallet, sel, p)
}

// Followee returns page of posts of addresses followed by the wallet.
// The feed is empty when the wallet follows nobody.
func (f *Feed) Followee(ctx context.Context, wallet string, sel service.Selector) (*service.Page[*entities.Post], error) {
	follower := wallet
	if sel.Wallet != "" {
		follower = sel.Wallet
	}

	if !entities.IsAddress(follower) {
		return nil, fmt.Errorf("%w: invalid wallet", service.ErrInvalidInput)
	}
	follower = entities.NormalizeAddress(follower)

	p, err := sel.ListParams()
	if err != nil {
		return nil, err
	}

	followees, err := f.followees(ctx, follower)
	if err != nil {
		return nil, err
	}

	if len(followees) == 0 {
		return service.NewPage[*entities.Post](sel, nil, 0), nil
	}

	p.Wallets = followees

	return f.list(ctx, wallet, sel, p)
}

func (f *Feed) followees(ctx context.Context, wallet string) ([]string, error) {
	list, _, err := f.s.ListFollowers(ctx, &storage.ListParams{
		Wallets: []string{wallet},
		SortBy:  storage.CreatedAtSortType,
		OrderBy: storage.DescendingOrder,
		Limit:   f.followeeLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}

	return lo.Uniq(lo.Map(list, func(v *entities.Follower, _ int) string {
		return v.Address
	})), nil
}

func (f *Feed) list(ctx context.Context, wallet string, sel service.Selector, p *storage.ListParams) (*service.Page[*entities.Post], error) {
	posts, total, err := f.s.ListPosts(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	f.a.Posts(ctx, wallet, posts)

	log.WithFields(logrus.Fields{
		"wallet": wallet,
		"by":     sel.By,
		"total":  total,
	}).Debug("feed built")

	return service.NewPage(sel, posts, total), nil
}
