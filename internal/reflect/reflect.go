// Package reflect implements the table reflector (C3): an insert-only
// cache of column and primary-key metadata for (schema, table) pairs,
// consulted before any dynamic query is built against a tenant schema.
//
// Context
// -------
// Descriptors never change for the lifetime of a schema once reflected
// (DDL changes require an app restart, per spec.md §4.3), so this is an
// LRU rather than a TTL cache — the teacher's internal/cache.LRU
// (internal/cache/lru.go), reused here verbatim instead of reinventing a
// second bespoke cache type for the same job the view engine already
// solved. A lookup miss runs the engine-specific ColumnsQuery /
// PrimaryKeyQuery pair from internal/dbengine against the tenant's own
// pool; an empty column set maps to apperr.TableMissing.
package reflectcache

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/cache"
	"github.com/beresheet-platform/homeapi/internal/dbengine"
	"github.com/beresheet-platform/homeapi/internal/metrics"
)

// Column describes one reflected column.
type Column struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
	Nullable string `db:"is_nullable"`
}

// Table is the cached descriptor for one (schema, table) pair.
type Table struct {
	Schema        string
	Name          string
	Columns       []Column
	PrimaryKey    []string
	ColumnsByName map[string]Column
}

// HasColumn reports whether name is a reflected column of this table.
func (t Table) HasColumn(name string) bool {
	_, ok := t.ColumnsByName[name]
	return ok
}

type tableKey struct {
	schema string
	table  string
}

// Reflector caches Table descriptors, keyed by (schema, table), with a
// bounded LRU so a long-running process cannot grow the cache unbounded
// across a large tenant population with many distinct table names.
type Reflector struct {
	builder dbengine.Builder
	lru     *cache.LRU
	mu      sync.Mutex // serializes cold-loads per Reflector; small blast radius
}

// New builds a Reflector for the given engine, capped at capacity distinct
// descriptors.
func New(engine string, capacity int) (*Reflector, error) {
	builder, err := dbengine.For(engine)
	if err != nil {
		return nil, err
	}
	if capacity < 1 {
		capacity = 512
	}
	return &Reflector{builder: builder, lru: cache.New(capacity)}, nil
}

// Describe returns the reflected Table for (schema, table), loading and
// caching it on first use against db.
func (r *Reflector) Describe(ctx context.Context, db *sqlx.DB, schema, table string) (Table, error) {
	key := tableKey{schema: schema, table: table}
	if v, ok := r.lru.Get(key); ok {
		return v.(Table), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check: another goroutine may have loaded it while we waited.
	if v, ok := r.lru.Get(key); ok {
		return v.(Table), nil
	}

	cols, err := r.loadColumns(ctx, db, schema, table)
	if err != nil {
		return Table{}, err
	}
	if len(cols) == 0 {
		return Table{}, apperr.Newf(apperr.TableMissing, "table %s.%s has no reflected columns", schema, table)
	}

	pk, err := r.loadPrimaryKey(ctx, db, schema, table)
	if err != nil {
		return Table{}, err
	}

	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	t := Table{
		Schema:        schema,
		Name:          table,
		Columns:       cols,
		PrimaryKey:    pk,
		ColumnsByName: byName,
	}
	r.lru.Add(key, t)
	metrics.ReflectedTables.Set(float64(r.lru.Len()))
	return t, nil
}

func (r *Reflector) loadColumns(ctx context.Context, db *sqlx.DB, schema, table string) ([]Column, error) {
	q, args := r.builder.ColumnsQuery(schema, table)
	var cols []Column
	if err := db.SelectContext(ctx, &cols, q, args...); err != nil {
		return nil, apperr.Wrap(apperr.QueryFailed, "reflect columns", err)
	}
	return cols, nil
}

func (r *Reflector) loadPrimaryKey(ctx context.Context, db *sqlx.DB, schema, table string) ([]string, error) {
	q, args := r.builder.PrimaryKeyQuery(schema, table)
	var pk []string
	if err := db.SelectContext(ctx, &pk, q, args...); err != nil {
		return nil, apperr.Wrap(apperr.QueryFailed, "reflect primary key", err)
	}
	return pk, nil
}
