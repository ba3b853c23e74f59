package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/storage"
)

func TestSafePageNo(t *testing.T) {
	require.EqualValues(t, 1, SafePageNo(0))
	require.EqualValues(t, 1, SafePageNo(1))
	require.EqualValues(t, 7, SafePageNo(7))
}

func TestSafePageSize(t *testing.T) {
	require.EqualValues(t, DefaultPageSize, SafePageSize(0))
	require.EqualValues(t, 5, SafePageSize(5))
	require.EqualValues(t, MaxPageSize, SafePageSize(1000))
}

func TestSelector_ListParams(t *testing.T) {
	tt := []struct {
		name string
		s    Selector

		p   *storage.ListParams
		err error
	}{
		{
			name: "default",
			p: &storage.ListParams{
				SortBy:  storage.CreatedAtSortType,
				OrderBy: storage.DescendingOrder,
				Limit:   DefaultPageSize,
			},
		},
		{
			name: "third_page",
			s:    Selector{PageNo: 3, PageSize: 10, SortBy: "statisticLike", OrderBy: "asc"},
			p: &storage.ListParams{
				SortBy:  storage.LikeSortType,
				OrderBy: storage.AscendingOrder,
				Offset:  20,
				Limit:   10,
			},
		},
		{
			name: "bad_sort",
			s:    Selector{SortBy: "content"},
			err:  ErrInvalidInput,
		},
		{
			name: "bad_order",
			s:    Selector{OrderBy: "up"},
			err:  ErrInvalidInput,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.s.ListParams()
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.p, p)
		})
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](Selector{PageNo: 2}, nil, 21)
	require.Equal(t, &Page[int]{Total: 21, PageNo: 2, PageSize: DefaultPageSize, List: []int{}}, p)
}
