package dbengine

import "fmt"

// oracleBuilder targets github.com/sijms/go-ora/v2, a pure-Go Oracle
// driver. No example in the retrieval pack imports an Oracle driver; this
// choice is named rather than grounded (see DESIGN.md) because spec.md's
// `database_type` enum requires Oracle support explicitly.
type oracleBuilder struct{}

func (oracleBuilder) DriverName() string { return "oracle" }

func (oracleBuilder) DSN(cred Credential) string {
	port := cred.Port
	if port == 0 {
		port = 1521
	}
	return fmt.Sprintf(
		"oracle://%s:%s@%s:%d/%s",
		cred.User, cred.Password, cred.Host, port, cred.DatabaseName,
	)
}

func (oracleBuilder) ColumnsQuery(schema, table string) (string, []any) {
	const q = `
		SELECT column_name, data_type, nullable
		FROM   all_tab_columns
		WHERE  owner = :1 AND table_name = :2
		ORDER  BY column_id`
	return q, []any{schema, table}
}

func (oracleBuilder) PrimaryKeyQuery(schema, table string) (string, []any) {
	const q = `
		SELECT cols.column_name
		FROM   all_constraints cons
		JOIN   all_cons_columns cols
		       ON cons.constraint_name = cols.constraint_name
		      AND cons.owner = cols.owner
		WHERE  cons.constraint_type = 'P'
		  AND  cons.owner = :1 AND cons.table_name = :2
		ORDER  BY cols.position`
	return q, []any{schema, table}
}
