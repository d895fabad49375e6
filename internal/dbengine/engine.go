// Package dbengine centralises the per-engine knowledge that the
// connection pool registry (internal/pool) and the table reflector
// (internal/reflect) both need: how to build a DSN for a schema/credential
// pair, which driver name to pass to sql.Open, and how to phrase an
// information-schema query for that engine.
//
// Only sqlserver and oracle are supported, matching the
// `database_type` enum tenant records carry; an unrecognised engine name
// is a fatal startup error, never a runtime one (config.Load validates it
// before any pool is ever opened).
package dbengine

import (
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/sijms/go-ora/v2"
)

// Engine identifies a supported tenant database engine.
type Engine string

const (
	SQLServer Engine = "sqlserver"
	Oracle    Engine = "oracle"
)

// Credential is the per-tenant principal used to build a DSN. Host/Port
// address the physical database server; DatabaseName and Schema identify
// the tenant's database/schema-owning user within it.
type Credential struct {
	Host         string
	Port         int
	DatabaseName string
	Schema       string
	User         string
	Password     string
}

// Builder is the per-engine contract used by pool and reflect.
type Builder interface {
	// DriverName is the value passed to sql.Open / sqlx.Open.
	DriverName() string

	// DSN builds a connection string for cred.
	DSN(cred Credential) string

	// ColumnsQuery returns a query (and its single bind argument) that
	// lists column name, data type, and nullability for one table within
	// a schema, ordered by ordinal position.
	ColumnsQuery(schema, table string) (query string, args []any)

	// PrimaryKeyQuery returns a query naming the primary-key columns of
	// one table within a schema.
	PrimaryKeyQuery(schema, table string) (query string, args []any)
}

// For builds the Builder for a configured engine name.
func For(engine string) (Builder, error) {
	switch Engine(engine) {
	case SQLServer:
		return sqlServerBuilder{}, nil
	case Oracle:
		return oracleBuilder{}, nil
	default:
		return nil, fmt.Errorf("dbengine: unrecognised engine %q (want sqlserver or oracle)", engine)
	}
}
