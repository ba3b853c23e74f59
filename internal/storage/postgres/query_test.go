package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

func TestListQueries(t *testing.T) {
	parent := ""

	tt := []struct {
		name string
		c    storage.Collection
		p    storage.ListParams
		args []interface{}
		in   string
	}{
		{
			name: "no wallets",
			c:    storage.PostCollection,
			p:    storage.ListParams{Limit: 20},
			args: []interface{}{entities.Active.String()},
		},
		{
			name: "one wallet",
			c:    storage.PostCollection,
			p:    storage.ListParams{Wallets: []string{"1"}, Limit: 20},
			args: []interface{}{entities.Active.String(), "1"},
			in:   "wallet IN (?)",
		},
		{
			name: "several wallets",
			c:    storage.PostCollection,
			p:    storage.ListParams{Wallets: []string{"1", "2", "3", "2"}, Limit: 20, Offset: 40},
			args: []interface{}{entities.Active.String(), "1", "2", "3"},
			in:   "wallet IN (?, ?, ?)",
		},
		{
			name: "wallets and comment filters",
			c:    storage.CommentCollection,
			p:    storage.ListParams{Wallets: []string{"1", "2"}, PostHash: "p", Parent: &parent},
			args: []interface{}{entities.Active.String(), "1", "2", "", "p"},
			in:   "wallet IN (?, ?)",
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			count, list, err := listQueries(tc.c, &tc.p)
			require.NoError(t, err)

			for _, st := range []statement{count, list} {
				assert.Equal(t, len(st.args), strings.Count(st.query, "?"), st.query)
				assert.Equal(t, tc.args, st.args)
				if tc.in != "" {
					assert.Contains(t, st.query, tc.in)
				}
			}

			assert.True(t, strings.HasPrefix(count.query, "SELECT COUNT(*) FROM "+tables[tc.c]+" WHERE"))
			assert.Contains(t, list.query, "ORDER BY created_at DESC, id DESC")
		})
	}
}

func TestListQueries_UnknownCollection(t *testing.T) {
	_, _, err := listQueries("unknown", &storage.ListParams{})
	require.Error(t, err)
}

func TestPg_Delete_UnknownCollection(t *testing.T) {
	b := entities.Base{}
	err := (&pg{}).Delete(context.Background(), "unknown", &b)
	require.EqualError(t, err, `unknown collection "unknown"`)
}
