// Package pool implements the per-schema connection pool registry (C2).
//
// Context
// -------
// A tenant's schema name is the pool key. The first request against a
// schema pays the cost of opening a *sqlx.DB and pinging it; every
// subsequent request against the same schema reuses the same pool.
// Concurrent cold requests for the same schema are coalesced with
// singleflight so only one connection attempt runs, generalizing the
// teacher's host-keyed tenant.Cache (internal/tenant/cache.go) to a
// schema-keyed, engine-agnostic pool registry. There is no idle evictor
// here, unlike the teacher: per spec.md §4.2 a pool lives for the process
// lifetime once opened, since the number of tenants is expected to stay
// small enough that standing pools are cheap.
package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/config"
	"github.com/beresheet-platform/homeapi/internal/dbengine"
	"github.com/beresheet-platform/homeapi/internal/metrics"
)

// Credential is the per-tenant connection identity the Registry needs to
// open a pool; the caller (the gate, after a registry lookup) supplies it
// so this package never depends on internal/registry directly.
type Credential struct {
	Schema   string
	User     string
	Password string
}

// Registry lazily opens and caches one *sqlx.DB per schema.
type Registry struct {
	cfg     config.Database
	builder dbengine.Builder

	sfg singleflight.Group
	mu  sync.RWMutex
	m   map[string]*sqlx.DB
}

// New builds a Registry bound to the deployment's chosen engine.
func New(cfg config.Database) (*Registry, error) {
	builder, err := dbengine.For(cfg.Engine)
	if err != nil {
		return nil, err
	}
	return &Registry{
		cfg:     cfg,
		builder: builder,
		m:       make(map[string]*sqlx.DB),
	}, nil
}

// Acquire returns the pool for cred.Schema, opening it on first use.
// Concurrent Acquire calls for the same schema block on one another's
// cold-start but never open duplicate pools. PoolAcquireWait bounds how
// long the caller waits for a busy cold-start before PoolSaturated.
func (r *Registry) Acquire(ctx context.Context, cred Credential) (*sqlx.DB, error) {
	r.mu.RLock()
	db, ok := r.m[cred.Schema]
	r.mu.RUnlock()
	if ok {
		return db, nil
	}

	waitCtx := ctx
	if r.cfg.PoolAcquireWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.cfg.PoolAcquireWait)
		defer cancel()
	}

	type loadResult struct {
		db  *sqlx.DB
		err error
	}
	ch := make(chan loadResult, 1)

	go func() {
		v, err, _ := r.sfg.Do(cred.Schema, func() (any, error) {
			r.mu.RLock()
			if db, ok := r.m[cred.Schema]; ok {
				r.mu.RUnlock()
				return db, nil
			}
			r.mu.RUnlock()
			return r.open(cred)
		})
		if err != nil {
			ch <- loadResult{err: err}
			return
		}
		ch <- loadResult{db: v.(*sqlx.DB)}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.db, nil
	case <-waitCtx.Done():
		metrics.PoolSaturatedTotal.Inc()
		return nil, apperr.Newf(apperr.PoolSaturated, "pool acquire for schema %q timed out", cred.Schema)
	}
}

func (r *Registry) open(cred Credential) (*sqlx.DB, error) {
	dsnCred := dbengine.Credential{
		Host:         r.cfg.EngineHost,
		Port:         r.cfg.EnginePort,
		DatabaseName: r.cfg.EngineDatabase,
		Schema:       cred.Schema,
		User:         cred.User,
		Password:     cred.Password,
	}
	db, err := sqlx.Open(r.builder.DriverName(), r.builder.DSN(dsnCred))
	if err != nil {
		metrics.PoolLoadErrorsTotal.Inc()
		return nil, apperr.Wrap(apperr.PoolUnavailable, fmt.Sprintf("pool open for schema %q", cred.Schema), err)
	}

	db.SetMaxOpenConns(r.cfg.MaxOpenConns)
	db.SetMaxIdleConns(r.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(r.cfg.ConnMaxLifetime)

	// A fresh tenant engine can be mid-restart the moment a first request
	// lands; a few quick exponential-backoff retries absorb that without
	// surfacing PoolUnavailable for a blip the caller's PoolAcquireWait
	// budget would otherwise also have to cover.
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	pingErr := backoff.Retry(func() error { return db.PingContext(pingCtx) }, backoff.WithContext(bo, pingCtx))
	if pingErr != nil {
		db.Close()
		metrics.PoolLoadErrorsTotal.Inc()
		return nil, apperr.Wrap(apperr.PoolUnavailable, fmt.Sprintf("pool ping for schema %q", cred.Schema), pingErr)
	}

	r.mu.Lock()
	r.m[cred.Schema] = db
	r.mu.Unlock()

	metrics.PoolLoadTotal.Inc()
	metrics.ActivePools.Inc()
	return db, nil
}

// Evict closes and forgets the pool for schema, used by tenant teardown
// so a deleted tenant's connections are not held open past Delete.
func (r *Registry) Evict(schema string) {
	r.mu.Lock()
	db, ok := r.m[schema]
	if ok {
		delete(r.m, schema)
	}
	r.mu.Unlock()
	if ok {
		db.Close()
		metrics.ActivePools.Dec()
	}
}

// Len reports the number of standing pools, used by health/debug endpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
