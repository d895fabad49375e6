// internal/registry/service.go
//
// Service is the package's single exported entry point: the tenant
// registry used by the gate (C7), the pool registry (C2), and the admin
// surface (internal/admin). It layers the short-TTL cache (cache.go) and
// the provisioning/teardown state machines (provision.go) on top of the
// raw `home` table access in repository.go.
//
// Context
// -------
// Create/Delete follow spec.md §4.4's numbered algorithm; every step is
// re-checked for idempotency before it runs, so a crashed or retried
// provisioning run converges rather than double-applying DDL. Storage and
// schema bootstrap are expressed as small interfaces so this package
// never imports internal/storage or internal/schemaddl directly — the
// caller (cmd/homeapi) wires concrete implementations in.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/config"
	"github.com/beresheet-platform/homeapi/internal/dbengine"
	"github.com/beresheet-platform/homeapi/internal/metrics"
)

var tenantNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validate enforces CreateRequest's struct tags, including the
// "tenantname" rule below: spec.md §4.4 step 1 and §6 require the name to
// match ^[A-Za-z0-9_-]+$, 1-50 characters, since it flows unquoted into
// the DDL identifiers provision.go builds for both engines.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tenantname", func(fl validator.FieldLevel) bool {
		return tenantNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// StoragePrefixer provisions and removes the object-storage prefix that
// belongs to a tenant (step 5/6 of spec.md §4.4). Implemented by
// internal/storage's Provider.
type StoragePrefixer interface {
	EnsurePrefix(ctx context.Context, tenant string) error
	RemovePrefix(ctx context.Context, tenant string) error
}

// SchemaBootstrapper creates the application tables a fresh tenant schema
// needs (step 6 of spec.md §4.4). Implemented by internal/schemaddl.
type SchemaBootstrapper interface {
	Bootstrap(ctx context.Context, tenantDB *sqlx.DB, schema string) error
}

// CreateRequest carries the fields an operator supplies when provisioning
// a new tenant; everything else (timestamps, generated password) is
// derived inside Create.
type CreateRequest struct {
	Name           string `validate:"required,min=1,max=50,tenantname"`
	AdminUserEmail string `validate:"required,email"`
}

// Service ties the admin schema, the optional cache, provisioning, and
// the pluggable storage/bootstrap collaborators together.
type Service struct {
	global  *sqlx.DB // control-plane MySQL connection (admin + home_index)
	cfg     config.Database
	cache   *ttlCache
	storage StoragePrefixer
	ddl     SchemaBootstrapper
}

// New builds a Service. redisURL may be empty, in which case the cache is
// purely in-process.
func New(global *sqlx.DB, cfg config.Database, cacheCfg config.Cache, storage StoragePrefixer, ddl SchemaBootstrapper) (*Service, error) {
	var rf *redisFront
	if cacheCfg.Provider == "redis" {
		front, err := newRedisFront(cacheCfg.RedisURL, cacheCfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("registry: redis front: %w", err)
		}
		rf = front
	}
	return &Service{
		global:  global,
		cfg:     cfg,
		cache:   newTTLCache(cacheCfg.TTL, rf),
		storage: storage,
		ddl:     ddl,
	}, nil
}

// LookupByName resolves a tenant by its path segment, consulting the
// cache before falling through to the admin schema.
func (s *Service) LookupByName(ctx context.Context, name string) (Record, error) {
	if rec, ok := s.cache.getByName(name); ok {
		metrics.RegistryCacheHitTotal.Inc()
		return rec, nil
	}
	metrics.RegistryLoadTotal.Inc()
	rec, err := byName(ctx, s.global, name)
	if err != nil {
		if err == ErrNotFound {
			return Record{}, apperr.Newf(apperr.TenantNotFound, "no tenant named %q", name)
		}
		return Record{}, apperr.Wrap(apperr.QueryFailed, "registry lookup by name", err)
	}
	s.cache.store(*rec)
	return *rec, nil
}

// LookupByID resolves a tenant by its numeric home_id, used when a caller
// identity's home_id must be cross-checked against the path tenant.
func (s *Service) LookupByID(ctx context.Context, id uint64) (Record, error) {
	if rec, ok := s.cache.getByID(id); ok {
		metrics.RegistryCacheHitTotal.Inc()
		return rec, nil
	}
	metrics.RegistryLoadTotal.Inc()
	rec, err := byID(ctx, s.global, id)
	if err != nil {
		if err == ErrNotFound {
			return Record{}, apperr.Newf(apperr.TenantNotFound, "no tenant with id %d", id)
		}
		return Record{}, apperr.Wrap(apperr.QueryFailed, "registry lookup by id", err)
	}
	s.cache.store(*rec)
	return *rec, nil
}

// ListAll returns every provisioned tenant, ordered by id. Used by the
// admin tenant list endpoint; never cached.
func (s *Service) ListAll(ctx context.Context) ([]Record, error) {
	rows, err := listAll(ctx, s.global)
	if err != nil {
		return nil, apperr.Wrap(apperr.QueryFailed, "registry list all", err)
	}
	return rows, nil
}

// Create runs spec.md §4.4's provisioning algorithm end to end: validate
// name, open the admin connection, create the database principal and
// schema, bootstrap application tables, ensure the storage prefix, and
// finally commit the catalog row. Each step is idempotent so a retried
// Create after a partial failure converges instead of erroring on
// "already exists".
func (s *Service) Create(ctx context.Context, req CreateRequest, password string) (Record, error) {
	name := strings.TrimSpace(strings.ToLower(req.Name))
	validateReq := req
	validateReq.Name = name
	if err := validate.Struct(validateReq); err != nil {
		return Record{}, apperr.Newf(apperr.ValidationError, "tenant create request invalid: %v", err)
	}
	if _, reserved := config.ReservedTenantNames[name]; reserved {
		return Record{}, apperr.Newf(apperr.ValidationError, "%q is a reserved name", name)
	}
	if _, err := byName(ctx, s.global, name); err == nil {
		return Record{}, apperr.Newf(apperr.Conflict, "tenant %q already exists", name)
	} else if err != ErrNotFound {
		return Record{}, apperr.Wrap(apperr.QueryFailed, "registry create: existence check", err)
	}

	admin, err := s.openAdminConn(ctx)
	if err != nil {
		return Record{}, apperr.Wrap(apperr.PoolUnavailable, "registry create: admin connection", err)
	}
	defer admin.Close()

	engine := dbengine.Engine(s.cfg.Engine)
	if err := provisionSchema(ctx, admin, engine, name, password); err != nil {
		return Record{}, apperr.Wrap(apperr.QueryFailed, "registry create: provision schema", err)
	}

	if s.ddl != nil {
		builder, err := dbengine.For(s.cfg.Engine)
		if err != nil {
			return Record{}, apperr.Wrap(apperr.QueryFailed, "registry create: engine builder", err)
		}
		cred := dbengine.Credential{
			Host: s.cfg.EngineHost, Port: s.cfg.EnginePort, DatabaseName: s.cfg.EngineDatabase,
			Schema: name, User: name, Password: password,
		}
		tenantDB, err := sqlx.Open(builder.DriverName(), builder.DSN(cred))
		if err != nil {
			return Record{}, apperr.Wrap(apperr.PoolUnavailable, "registry create: tenant connection", err)
		}
		defer tenantDB.Close()
		if err := s.ddl.Bootstrap(ctx, tenantDB, name); err != nil {
			return Record{}, apperr.Wrap(apperr.QueryFailed, "registry create: bootstrap tables", err)
		}
	}

	if s.storage != nil {
		if err := s.storage.EnsurePrefix(ctx, name); err != nil {
			return Record{}, apperr.Wrap(apperr.StorageFailed, "registry create: storage prefix", err)
		}
	}

	rec := Record{
		Name:              name,
		DatabaseName:      s.cfg.EngineDatabase,
		DatabaseType:      s.cfg.Engine,
		DatabaseSchema:    name,
		AdminUserEmail:    req.AdminUserEmail,
		AdminUserPassword: password,
	}
	id, err := insert(ctx, s.global, rec)
	if err != nil {
		return Record{}, apperr.Wrap(apperr.QueryFailed, "registry create: commit row", err)
	}
	rec.ID = id
	s.cache.store(rec)
	metrics.ActivePools.Inc()
	return rec, nil
}

// Delete runs the teardown algorithm in reverse of Create: drop the
// catalog row first (so lookups stop resolving the tenant immediately),
// then remove the storage prefix and database principal, verifying the
// engine reports zero residual objects before returning success. A
// failure past the row delete surfaces as TeardownIncomplete rather than
// re-creating the row, per spec.md §9 open question (b): partial teardown
// is reported, not rolled back.
func (s *Service) Delete(ctx context.Context, name string) error {
	rec, err := byName(ctx, s.global, name)
	if err != nil {
		if err == ErrNotFound {
			return apperr.Newf(apperr.TenantNotFound, "no tenant named %q", name)
		}
		return apperr.Wrap(apperr.QueryFailed, "registry delete: lookup", err)
	}

	if err := deleteByName(ctx, s.global, name); err != nil {
		return apperr.Wrap(apperr.QueryFailed, "registry delete: commit row removal", err)
	}
	s.cache.invalidate(name, rec.ID)
	metrics.ActivePools.Dec()

	if s.storage != nil {
		if err := s.storage.RemovePrefix(ctx, name); err != nil {
			return apperr.Wrap(apperr.TeardownIncomplete, "registry delete: storage prefix removal", err)
		}
	}

	admin, err := s.openAdminConn(ctx)
	if err != nil {
		return apperr.Wrap(apperr.TeardownIncomplete, "registry delete: admin connection", err)
	}
	defer admin.Close()

	if err := teardownSchema(ctx, admin, dbengine.Engine(s.cfg.Engine), name); err != nil {
		return apperr.Wrap(apperr.TeardownIncomplete, "registry delete: teardown schema", err)
	}
	return nil
}

// openAdminConn opens a fresh connection as the deployment's admin
// principal against the tenant engine host, used only for DDL during
// provisioning and teardown — never pooled, never reused across calls.
func (s *Service) openAdminConn(ctx context.Context) (*sql.DB, error) {
	builder, err := dbengine.For(s.cfg.Engine)
	if err != nil {
		return nil, err
	}
	cred := dbengine.Credential{
		Host: s.cfg.EngineHost, Port: s.cfg.EnginePort, DatabaseName: s.cfg.EngineDatabase,
		User: s.cfg.AdminUser, Password: s.cfg.AdminPassword,
	}
	db, err := sql.Open(builder.DriverName(), builder.DSN(cred))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
