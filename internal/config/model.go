// internal/config/model.go
//
// Typed configuration model for the tenant-routing core.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `HOMEAPI_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing or `database.engine` is unrecognised.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the control-plane DSN and the per-tenant engine choice.
//
// GlobalDSN addresses the `admin` and `home_index` schemas, which always
// live on the MySQL control-plane database regardless of which engine a
// tenant uses. Engine selects the driver used for every per-tenant pool
// (see internal/dbengine); an unrecognised value is a fatal startup error.
type Database struct {
	GlobalDSN        string        `koanf:"global_dsn"        validate:"required"`
	GlobalPassword   string        `koanf:"global_password"   validate:"required"`
	Engine           string        `koanf:"engine"            validate:"required,oneof=sqlserver oracle"`
	EngineHost       string        `koanf:"engine_host"       validate:"required"`
	EnginePort       int           `koanf:"engine_port"`
	EngineDatabase   string        `koanf:"engine_database"`
	AdminUser        string        `koanf:"admin_user"        validate:"required"`
	AdminPassword    string        `koanf:"admin_password"    validate:"required"`
	PasswordTemplate string        `koanf:"password_template" validate:"required"`
	QueryTimeout     time.Duration `koanf:"query_timeout"`
	MaxOpenConns     int           `koanf:"max_open_conns"`
	MaxIdleConns     int           `koanf:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `koanf:"conn_max_lifetime"`
	PoolAcquireWait  time.Duration `koanf:"pool_acquire_wait"`
	LocalhostAlias   string        `koanf:"localhost_alias"`
}

//
// Cache section
//

// Cache configures the optional Redis-backed read-through cache shared by
// the tenant registry (C4) and the phone index (C5). Provider "memory"
// (the default) keeps both caches in-process.
type Cache struct {
	Provider string        `koanf:"provider" validate:"omitempty,oneof=memory redis"`
	RedisURL string        `koanf:"redis_url"`
	TTL      time.Duration `koanf:"ttl"`
}

//
// Storage section
//

// Storage selects the object-storage backend used for tenant media, and
// the signed-URL expiry to apply (one year by default, per spec).
type Storage struct {
	Provider      string        `koanf:"provider" validate:"omitempty,oneof=local noop"`
	LocalBaseDir  string        `koanf:"local_base_dir"`
	PublicBase    string        `koanf:"public_base"`
	SignedTTL     time.Duration `koanf:"signed_ttl"`
	UploadTimeout time.Duration `koanf:"upload_timeout"`
}

//
// Auth section
//

// Auth holds the web session secret and token lifetimes.
type Auth struct {
	WebSecret       string        `koanf:"web_secret"   validate:"required"`
	AdminSecret     string        `koanf:"admin_secret" validate:"required"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or HOMEAPI_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // HOMEAPI_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Cache    Cache    `koanf:"cache"`
	Storage  Storage  `koanf:"storage"`
	Auth     Auth     `koanf:"auth"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// ReservedTenantNames may never be used as a tenant `name` (provisioning
// step 1: validate name, reject reserved words).
var ReservedTenantNames = map[string]struct{}{
	"home": {}, "admin": {}, "api": {}, "web": {},
	"login": {}, "health": {}, "static": {}, "debug": {},
}
