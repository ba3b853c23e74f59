// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "postgres")

const uniqueViolation = "23505"

const baseColumns = "id, hash, wallet, signature, created_at, updated_at, deleted"

// nolint:gochecknoglobals
var (
	tables = map[storage.Collection]string{
		storage.PostCollection:     "post",
		storage.CommentCollection:  "comment",
		storage.LikeCollection:     `"like"`,
		storage.FavoriteCollection: "favorite",
		storage.FollowerCollection: "follower",
		storage.ContactCollection:  "contact",
		storage.ProfileCollection:  "profile",
	}

	statisticsColumns = "statistic_view, statistic_repost, statistic_quote, statistic_like, statistic_favorite"

	columns = map[storage.Collection]string{
		storage.PostCollection:     baseColumns + ", " + statisticsColumns + ", content, images, statistic_reply",
		storage.CommentCollection:  baseColumns + ", " + statisticsColumns + ", post_hash, parent_hash, content, children_count",
		storage.LikeCollection:     baseColumns + ", ref_kind, ref_hash",
		storage.FavoriteCollection: baseColumns + ", ref_kind, ref_hash",
		storage.FollowerCollection: baseColumns + ", address",
		storage.ContactCollection:  baseColumns + ", address, remark",
		storage.ProfileCollection:  baseColumns + ", nickname, avatar, bio",
	}

	statisticsCounters = map[entities.Counter]string{
		entities.ViewCounter:     "statistic_view",
		entities.RepostCounter:   "statistic_repost",
		entities.QuoteCounter:    "statistic_quote",
		entities.LikeCounter:     "statistic_like",
		entities.FavoriteCounter: "statistic_favorite",
	}

	counters = map[storage.Collection]map[entities.Counter]string{
		storage.PostCollection:    withCounter(statisticsCounters, entities.ReplyCounter, "statistic_reply"),
		storage.CommentCollection: withCounter(statisticsCounters, entities.ChildrenCounter, "children_count"),
	}

	sortColumns = map[storage.SortType]string{
		storage.CreatedAtSortType: "created_at",
		storage.UpdatedAtSortType: "updated_at",
		storage.ViewSortType:      "statistic_view",
		storage.LikeSortType:      "statistic_like",
		storage.FavoriteSortType:  "statistic_favorite",
	}
)

type pg struct {
	db *sqlx.DB

	closeOnce sync.Once
	closeErr  error
}

// New creates new instance of pg.
// The connection is established lazily, Connect forces it.
func New(db *sql.DB) storage.Storage {
	return &pg{
		db: sqlx.NewDb(db, "postgres"),
	}
}

func withCounter(m map[entities.Counter]string, c entities.Counter, column string) map[entities.Counter]string {
	out := make(map[entities.Counter]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[c] = column
	return out
}

func (s *pg) Connect(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping: %w", err)
	}

	return nil
}

func (s *pg) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})

	return s.closeErr
}

func (s *pg) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *pg) LastWrite(ctx context.Context, c storage.Collection, wallet string, f storage.TimeField) (time.Time, error) {
	table, ok := tables[c]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown collection %q", c)
	}

	if f != storage.CreatedAtField && f != storage.UpdatedAtField {
		return time.Time{}, fmt.Errorf("unknown time field %q", f)
	}

	var t sql.NullTime
	if err := sqlx.GetContext(ctx, s.db, &t,
		fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE wallet = $1`, f, table), wallet,
	); err != nil {
		return time.Time{}, fmt.Errorf("failed to query: %w", err)
	}

	if !t.Valid {
		return time.Time{}, nil
	}

	return t.Time.UTC(), nil
}

func (s *pg) Delete(ctx context.Context, c storage.Collection, b *entities.Base) error {
	table, ok := tables[c]
	if !ok {
		return fmt.Errorf("unknown collection %q", c)
	}

	if !b.IsTombstone() {
		return entities.ErrInvalidTombstone
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted = $1, updated_at = $2 WHERE id = $3 AND deleted = $4`, table),
		b.Deleted.String(), time.Now().UTC(), b.ID.String(), entities.Active.String(),
	)
	if err != nil {
		return wrapExecErr(err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// SetCounter writes the counter using its read value as a part of the match filter.
// A concurrent writer which changed the value first makes this update match nothing.
func (s *pg) SetCounter(ctx context.Context, c storage.Collection, id uuid.UUID, counter entities.Counter, expected, value int64) (bool, error) {
	column, ok := counters[c][counter]
	if !ok {
		return false, storage.ErrUnknownCounter
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET %s = $1, updated_at = $2 WHERE id = $3 AND deleted = $4 AND %s = $5`,
			tables[c], column, column),
		value, time.Now().UTC(), id.String(), entities.Active.String(), expected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n > 0, nil
}

func (s *pg) insert(ctx context.Context, c storage.Collection, dto interface{}) error {
	cols := columns[c]
	query := fmt.Sprintf(`INSERT INTO %s(%s) VALUES(:%s)`, tables[c], cols, strings.ReplaceAll(cols, ", ", ", :"))

	if _, err := sqlx.NamedExecContext(ctx, s.db, query, dto); err != nil {
		return wrapExecErr(err)
	}

	return nil
}

func (s *pg) get(ctx context.Context, c storage.Collection, f storage.Filter, dest interface{}) error {
	if f.IsEmpty() {
		return storage.ErrEmptyFilter
	}

	where, args := filterClause(f)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIMIT 1`, columns[c], tables[c], where)

	if err := sqlx.GetContext(ctx, s.db, dest, s.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}

		return fmt.Errorf("failed to query: %w", err)
	}

	return nil
}

func (s *pg) list(ctx context.Context, c storage.Collection, p *storage.ListParams, dest interface{}) (uint64, error) {
	count, list, err := listQueries(c, p)
	if err != nil {
		return 0, err
	}

	var total uint64
	if err := sqlx.GetContext(ctx, s.db, &total, s.db.Rebind(count.query), count.args...); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}

	if err := sqlx.SelectContext(ctx, s.db, dest, s.db.Rebind(list.query), list.args...); err != nil {
		return 0, fmt.Errorf("failed to query: %w", err)
	}

	return total, nil
}

type statement struct {
	query string
	args  []interface{}
}

// listQueries builds count and select statements of the list with IN clauses expanded.
// Queries use '?' bindvars and should be rebound before execution.
func listQueries(c storage.Collection, p *storage.ListParams) (statement, statement, error) {
	table, ok := tables[c]
	if !ok {
		return statement{}, statement{}, fmt.Errorf("unknown collection %q", c)
	}

	where, args := listClause(p)

	count, countArgs, err := sqlx.In(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table, where), args...)
	if err != nil {
		return statement{}, statement{}, fmt.Errorf("failed to construct IN clause: %w", err)
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = sortColumns[storage.CreatedAtSortType]
	}

	order := "DESC"
	if p.OrderBy == storage.AscendingOrder {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s %s, id %s`, columns[c], table, where, column, order, order)
	if p.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, p.Limit)
	}
	if p.Offset > 0 {
		query = fmt.Sprintf("%s OFFSET %d", query, p.Offset)
	}

	query, queryArgs, err := sqlx.In(query, args...)
	if err != nil {
		return statement{}, statement{}, fmt.Errorf("failed to construct IN clause: %w", err)
	}

	return statement{query: count, args: countArgs}, statement{query: query, args: queryArgs}, nil
}

func filterClause(f storage.Filter) (string, []interface{}) {
	cond := []string{"deleted = ?"}
	args := []interface{}{entities.Active.String()}

	add := func(column string, v interface{}) {
		cond = append(cond, column+" = ?")
		args = append(args, v)
	}

	if f.ID != uuid.Nil {
		add("id", f.ID.String())
	}
	if f.Hash != "" {
		add("hash", f.Hash)
	}
	if f.Wallet != "" {
		add("wallet", f.Wallet)
	}
	if f.RefKind != "" {
		add("ref_kind", string(f.RefKind))
	}
	if f.RefHash != "" {
		add("ref_hash", f.RefHash)
	}
	if f.Address != "" {
		add("address", f.Address)
	}

	return strings.Join(cond, " AND "), args
}

func listClause(p *storage.ListParams) (string, []interface{}) {
	cond := []string{"deleted = ?"}
	args := []interface{}{entities.Active.String()}

	add := func(c string, v interface{}) {
		cond = append(cond, c)
		args = append(args, v)
	}

	if len(p.Wallets) > 0 {
		add("wallet IN (?)", stringsUnique(p.Wallets))
	}
	if p.Parent != nil {
		add("parent_hash = ?", *p.Parent)
	}
	if p.PostHash != "" {
		add("post_hash = ?", p.PostHash)
	}
	if p.RefKind != "" {
		add("ref_kind = ?", string(p.RefKind))
	}
	if p.RefHash != "" {
		add("ref_hash = ?", p.RefHash)
	}
	if p.Address != "" {
		add("address = ?", p.Address)
	}

	return strings.Join(cond, " AND "), args
}

func wrapExecErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		log.WithField("constraint", pqErr.Constraint).Debug("unique violation")
		return storage.ErrDuplicateKey
	}

	return fmt.Errorf("failed to exec: %w", err)
}

func stringsUnique(s []string) []string {
	m := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))

	for _, v := range s {
		if _, ok := m[v]; !ok {
			m[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}
