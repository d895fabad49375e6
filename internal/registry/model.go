// internal/registry/model.go
//
// `home` table row model (admin schema).
//
// Context
// -------
// Record mirrors one row in the persistent **home** table: the tenant
// catalog that the gate, the pool registry, and admin tooling all resolve
// against. Schema reference:
//
//	CREATE TABLE home (
//	    id                   BIGINT        NOT NULL AUTO_INCREMENT PRIMARY KEY,
//	    name                 VARCHAR(50)   NOT NULL UNIQUE,
//	    database_name        VARCHAR(128)  NOT NULL,
//	    database_type        VARCHAR(16)   NOT NULL,
//	    database_schema      VARCHAR(64)   NOT NULL,
//	    admin_user_email     VARCHAR(256)  NOT NULL,
//	    admin_user_password  VARCHAR(256)  NOT NULL,
//	    created_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	                         ON UPDATE CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
//   - `AdminUserPassword` is the seed credential discussed in spec.md's open
//     question (a): stored as-is, opaque to this package, intentionally not
//     hashed here. Do not read this as an endorsement of cleartext storage
//     for anything beyond the documented seed-login use case.
//   - `Name` must equal `DatabaseSchema` for every non-legacy tenant; callers
//     that create tenants enforce this, the model does not.
package registry

import "time"

// Record mirrors one row in the `home` table. It round-trips through
// JSON for the Redis cache front (redis.go), which needs every field
// including AdminUserPassword to rebuild a usable pool credential on a
// cache hit; callers that expose a Record over HTTP (internal/admin) use
// their own response DTO instead of encoding Record directly, so the
// password never reaches a client.
type Record struct {
	ID                uint64    `db:"id"`
	Name              string    `db:"name"`
	DatabaseName      string    `db:"database_name"`
	DatabaseType      string    `db:"database_type"`
	DatabaseSchema    string    `db:"database_schema"`
	AdminUserEmail    string    `db:"admin_user_email"`
	AdminUserPassword string    `db:"admin_user_password"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
