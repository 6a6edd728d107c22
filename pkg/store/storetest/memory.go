// Package storetest provides an in-memory store.Collection for service tests.
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/pagination"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/shopspring/decimal"
)

type Op string

const (
	OpGet       Op = "get"
	OpList      Op = "list"
	OpCreate    Op = "create"
	OpUpdate    Op = "update"
	OpIncrement Op = "increment"
)

// Call records one operation made against a Memory collection.
type Call struct {
	Op     Op
	ID     string
	Fields store.Fields
}

// Memory keeps records keyed by id. Hook, when set, runs before every
// operation and its error is returned as-is, which lets tests inject outages.
type Memory[T any] struct {
	mu      sync.Mutex
	name    string
	records map[string]T
	order   []string
	calls   []Call

	Hook func(op Op, id string, record *T) error
}

func New[T any](name string, seed ...T) *Memory[T] {
	m := &Memory[T]{name: name, records: map[string]T{}}
	for _, rec := range seed {
		id := recordID(&rec)
		m.records[id] = rec
		m.order = append(m.order, id)
	}
	return m
}

func (m *Memory[T]) Name() string { return m.name }

// Calls returns a copy of every operation seen so far.
func (m *Memory[T]) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CountOps counts operations of the given kind.
func (m *Memory[T]) CountOps(op Op) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// All returns records in insertion order.
func (m *Memory[T]) All() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out
}

// Peek returns a record without recording a call.
func (m *Memory[T]) Peek(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

func (m *Memory[T]) hook(op Op, id string, rec *T, fields store.Fields) error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: op, ID: id, Fields: fields})
	m.mu.Unlock()
	if m.Hook != nil {
		return m.Hook(op, id, rec)
	}
	return nil
}

func (m *Memory[T]) GetOne(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := m.hook(OpGet, id, nil, nil); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", store.ErrNotFound, m.name, id)
	}
	return &rec, nil
}

func (m *Memory[T]) GetList(ctx context.Context, page, perPage int, opts store.ListOptions) (*store.ListResult[T], error) {
	all, err := m.GetFullList(ctx, opts)
	if err != nil {
		return nil, err
	}
	page = pagination.NormalizePage(page)
	perPage = pagination.NormalizePerPage(perPage)
	start := pagination.Offset(page, perPage)
	end := start + perPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return &store.ListResult[T]{
		Page:       page,
		PerPage:    perPage,
		TotalItems: len(all),
		TotalPages: pagination.TotalPages(len(all), perPage),
		Items:      all[start:end],
	}, nil
}

func (m *Memory[T]) GetFullList(ctx context.Context, opts store.ListOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := store.ValidateOptions(opts); err != nil {
		return nil, err
	}
	if err := m.hook(OpList, "", nil, nil); err != nil {
		return nil, err
	}
	out := []T{}
	for _, rec := range m.All() {
		ok, err := matches(rec, opts.Filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	for i := len(opts.Sort) - 1; i >= 0; i-- {
		field, desc := store.SortField(opts.Sort[i])
		sort.SliceStable(out, func(a, b int) bool {
			less := compare(columnValue(out[a], field), columnValue(out[b], field)) < 0
			if desc {
				return compare(columnValue(out[b], field), columnValue(out[a], field)) < 0
			}
			return less
		})
	}
	return out, nil
}

func (m *Memory[T]) Create(ctx context.Context, record *T) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	store.PrepareCreate(record, time.Now().UTC())
	id := recordID(record)
	if err := m.hook(OpCreate, id, record, nil); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[id]; exists {
		return fmt.Errorf("%s: duplicate id %s", m.name, id)
	}
	m.records[id] = *record
	m.order = append(m.order, id)
	return nil
}

func (m *Memory[T]) Update(ctx context.Context, id string, fields store.Fields) error {
	return m.mutate(ctx, OpUpdate, id, fields, func(field reflect.Value, value any) error {
		return assign(field, value)
	})
}

func (m *Memory[T]) Increment(ctx context.Context, id string, deltas store.Fields) error {
	return m.mutate(ctx, OpIncrement, id, deltas, add)
}

func (m *Memory[T]) mutate(ctx context.Context, op Op, id string, fields store.Fields, apply func(reflect.Value, any) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	for name := range fields {
		if err := store.ValidateField(name); err != nil {
			return err
		}
	}
	if err := m.hook(op, id, nil, fields); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, m.name, id)
	}
	v := reflect.ValueOf(&rec).Elem()
	for name, value := range fields {
		field, found := fieldByColumn(v, name)
		if !found {
			return fmt.Errorf("%s: unknown column %q", m.name, name)
		}
		if err := apply(field, value); err != nil {
			return fmt.Errorf("%s.%s: %w", m.name, name, err)
		}
	}
	m.records[id] = rec
	return nil
}

func recordID(rec any) string {
	if r, ok := rec.(interface{ RecordID() string }); ok {
		return r.RecordID()
	}
	return fmt.Sprint(columnValue(reflect.ValueOf(rec).Elem().Interface(), "id"))
}

// fieldByColumn resolves a column name through gorm column tags, descending into embedded structs.
func fieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if f, ok := fieldByColumn(v.Field(i), column); ok {
				return f, true
			}
			continue
		}
		for _, part := range strings.Split(sf.Tag.Get("gorm"), ";") {
			if strings.TrimPrefix(part, "column:") == column && strings.HasPrefix(part, "column:") {
				return v.Field(i), true
			}
		}
	}
	return reflect.Value{}, false
}

func columnValue(rec any, column string) any {
	v := reflect.ValueOf(rec)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	f, ok := fieldByColumn(v, column)
	if !ok {
		return nil
	}
	return f.Interface()
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("cannot assign %T to %s", value, field.Type())
	}
	field.Set(rv.Convert(field.Type()))
	return nil
}

func add(field reflect.Value, delta any) error {
	switch cur := field.Interface().(type) {
	case decimal.Decimal:
		d, ok := delta.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("decimal column needs decimal delta, got %T", delta)
		}
		field.Set(reflect.ValueOf(cur.Add(d)))
		return nil
	}
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		rv := reflect.ValueOf(delta)
		if !rv.CanConvert(reflect.TypeOf(int64(0))) {
			return fmt.Errorf("integer column needs integer delta, got %T", delta)
		}
		field.SetInt(field.Int() + rv.Convert(reflect.TypeOf(int64(0))).Int())
		return nil
	default:
		return fmt.Errorf("column of kind %s is not numeric", field.Kind())
	}
}

func matches(rec any, f store.Filter) (bool, error) {
	switch node := f.(type) {
	case nil:
		return true, nil
	case store.Cond:
		got := columnValue(rec, node.Field)
		switch node.Op {
		case store.OpEq:
			return compare(got, node.Value) == 0, nil
		case store.OpNeq:
			return compare(got, node.Value) != 0, nil
		case store.OpGt:
			return compare(got, node.Value) > 0, nil
		case store.OpGte:
			return compare(got, node.Value) >= 0, nil
		case store.OpLt:
			return compare(got, node.Value) < 0, nil
		case store.OpLte:
			return compare(got, node.Value) <= 0, nil
		case store.OpContains:
			return strings.Contains(strings.ToLower(fmt.Sprint(got)), strings.ToLower(fmt.Sprint(node.Value))), nil
		}
		return false, fmt.Errorf("%w: operator %q", store.ErrInvalid, node.Op)
	case store.Group:
		for _, child := range node.Filters {
			ok, err := matches(rec, child)
			if err != nil {
				return false, err
			}
			if node.Kind == store.GroupOr && ok {
				return true, nil
			}
			if node.Kind == store.GroupAnd && !ok {
				return false, nil
			}
		}
		return node.Kind == store.GroupAnd, nil
	default:
		return false, fmt.Errorf("%w: unsupported filter %T", store.ErrInvalid, f)
	}
}

// compare orders decimals, integers, times and strings; anything else compares by its printed form.
func compare(a, b any) int {
	if da, ok := toDecimal(a); ok {
		if db, ok := toDecimal(b); ok {
			return da.Cmp(db)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Decimal{}, false
}

var _ store.Collection[struct{}] = (*Memory[struct{}])(nil)
