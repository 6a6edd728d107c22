// Package gormstore backs store collections with gorm tables (Postgres in
// production, SQLite for local runs and tests).
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/pagination"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type collection[T any] struct {
	db    *gorm.DB
	table string
	now   func() time.Time
}

// New returns a collection reading and writing the given table.
func New[T any](db *gorm.DB, table string) store.Collection[T] {
	return &collection[T]{db: db, table: table, now: time.Now}
}

func (c *collection[T]) Name() string {
	return c.table
}

func (c *collection[T]) scoped(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Table(c.table)
}

func (c *collection[T]) GetOne(ctx context.Context, id string) (*T, error) {
	var rec T
	err := c.scoped(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		return nil, c.translate(ctx, err, "get "+id)
	}
	return &rec, nil
}

func (c *collection[T]) GetList(ctx context.Context, page, perPage int, opts store.ListOptions) (*store.ListResult[T], error) {
	if err := store.ValidateOptions(opts); err != nil {
		return nil, err
	}
	page = pagination.NormalizePage(page)
	perPage = pagination.NormalizePerPage(perPage)

	query, err := c.filtered(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, c.translate(ctx, err, "count")
	}

	items := make([]T, 0, perPage)
	err = applySort(query, opts.Sort).
		Offset(pagination.Offset(page, perPage)).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, c.translate(ctx, err, "list")
	}

	return &store.ListResult[T]{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: pagination.TotalPages(int(total), perPage),
		Items:      items,
	}, nil
}

func (c *collection[T]) GetFullList(ctx context.Context, opts store.ListOptions) ([]T, error) {
	if err := store.ValidateOptions(opts); err != nil {
		return nil, err
	}
	query, err := c.filtered(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := applySort(query, opts.Sort).Find(&items).Error; err != nil {
		return nil, c.translate(ctx, err, "full list")
	}
	return items, nil
}

func (c *collection[T]) Create(ctx context.Context, record *T) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", store.ErrInvalid)
	}
	store.PrepareCreate(record, c.now().UTC())
	if err := c.scoped(ctx).Create(record).Error; err != nil {
		return c.translate(ctx, err, "create")
	}
	return nil
}

func (c *collection[T]) Update(ctx context.Context, id string, fields store.Fields) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]any, len(fields)+1)
	for name, value := range fields {
		if err := store.ValidateField(name); err != nil {
			return err
		}
		updates[name] = value
	}
	updates["updated"] = c.now().UTC()
	return c.exec(ctx, id, updates, "update "+id)
}

func (c *collection[T]) Increment(ctx context.Context, id string, deltas store.Fields) error {
	if len(deltas) == 0 {
		return nil
	}
	updates := make(map[string]any, len(deltas)+1)
	for name, delta := range deltas {
		if err := store.ValidateField(name); err != nil {
			return err
		}
		updates[name] = gorm.Expr(name+" + ?", delta)
	}
	updates["updated"] = c.now().UTC()
	return c.exec(ctx, id, updates, "increment "+id)
}

func (c *collection[T]) exec(ctx context.Context, id string, updates map[string]any, op string) error {
	res := c.scoped(ctx).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return c.translate(ctx, res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, c.table, id)
	}
	return nil
}

// Ping checks the underlying connection pool.
func (c *collection[T]) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *collection[T]) filtered(ctx context.Context, f store.Filter) (*gorm.DB, error) {
	query := c.scoped(ctx)
	if f == nil {
		return query, nil
	}
	clause, args, err := buildClause(f)
	if err != nil {
		return nil, err
	}
	return query.Where(clause, args...), nil
}

func applySort(query *gorm.DB, specs []string) *gorm.DB {
	for _, spec := range specs {
		field, desc := store.SortField(spec)
		if desc {
			query = query.Order(field + " DESC")
		} else {
			query = query.Order(field + " ASC")
		}
	}
	return query
}

func (c *collection[T]) translate(ctx context.Context, err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, c.table, op)
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s %s: %v", store.ErrUnavailable, c.table, op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Constraint and syntax errors are caller problems, not outages.
		return fmt.Errorf("%s %s: %w", c.table, op, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || isConnectionFailure(err) {
		return fmt.Errorf("%w: %s %s: %v", store.ErrUnavailable, c.table, op, err)
	}
	return fmt.Errorf("%s %s: %w", c.table, op, err)
}

func isConnectionFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "broken pipe", "connection reset", "database is closed", "sql: database is closed"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
