package service

import (
	"fmt"

	"github.com/Decentr-net/agora/internal/storage"
)

const (
	// DefaultPageSize is used when page size is not set.
	DefaultPageSize = 20
	// MaxPageSize ...
	MaxPageSize = 100
)

// nolint:gochecknoglobals
var sortTypes = map[string]storage.SortType{
	"":                  storage.CreatedAtSortType,
	"createdAt":         storage.CreatedAtSortType,
	"updatedAt":         storage.UpdatedAtSortType,
	"statisticView":     storage.ViewSortType,
	"statisticLike":     storage.LikeSortType,
	"statisticFavorite": storage.FavoriteSortType,
}

// SafePageNo returns page number starting from 1.
func SafePageNo(n uint64) uint64 {
	if n < 1 {
		return 1
	}
	return n
}

// SafePageSize returns page size limited by MaxPageSize.
func SafePageSize(n uint64) uint64 {
	if n == 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// ListParams converts paging and sorting parameters of the selector into storage ones.
// Records are sorted by creation time in descending order by default.
func (s Selector) ListParams() (*storage.ListParams, error) {
	sortBy, ok := sortTypes[s.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, s.SortBy)
	}

	orderBy := storage.DescendingOrder
	switch s.OrderBy {
	case "", string(storage.DescendingOrder):
	case string(storage.AscendingOrder):
		orderBy = storage.AscendingOrder
	default:
		return nil, fmt.Errorf("%w: unknown order %q", ErrInvalidInput, s.OrderBy)
	}

	pageNo, pageSize := SafePageNo(s.PageNo), SafePageSize(s.PageSize)

	return &storage.ListParams{
		SortBy:  sortBy,
		OrderBy: orderBy,
		Offset:  (pageNo - 1) * pageSize,
		Limit:   pageSize,
	}, nil
}

// NewPage wraps list query results.
func NewPage[T any](s Selector, list []T, total uint64) *Page[T] {
	if list == nil {
		list = []T{}
	}

	return &Page[T]{
		Total:    total,
		PageNo:   SafePageNo(s.PageNo),
		PageSize: SafePageSize(s.PageSize),
		List:     list,
	}
}
