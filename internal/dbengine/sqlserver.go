package dbengine

import "fmt"

// sqlServerBuilder targets github.com/microsoft/go-mssqldb. DSN shape and
// the buildDSN-per-driver pattern are grounded on the storage-plugin-era
// database manager's buildMSSQLDSN switch.
type sqlServerBuilder struct{}

func (sqlServerBuilder) DriverName() string { return "sqlserver" }

func (sqlServerBuilder) DSN(cred Credential) string {
	port := cred.Port
	if port == 0 {
		port = 1433
	}
	return fmt.Sprintf(
		"sqlserver://%s:%s@%s:%d?database=%s&schema=%s",
		cred.User, cred.Password, cred.Host, port, cred.DatabaseName, cred.Schema,
	)
}

func (sqlServerBuilder) ColumnsQuery(schema, table string) (string, []any) {
	const q = `
		SELECT column_name, data_type, is_nullable
		FROM   information_schema.columns
		WHERE  table_schema = @p1 AND table_name = @p2
		ORDER  BY ordinal_position`
	return q, []any{schema, table}
}

func (sqlServerBuilder) PrimaryKeyQuery(schema, table string) (string, []any) {
	const q = `
		SELECT kcu.column_name
		FROM   information_schema.table_constraints tc
		JOIN   information_schema.key_column_usage kcu
		       ON tc.constraint_name = kcu.constraint_name
		      AND tc.table_schema   = kcu.table_schema
		WHERE  tc.constraint_type = 'PRIMARY KEY'
		  AND  tc.table_schema = @p1 AND tc.table_name = @p2
		ORDER  BY kcu.ordinal_position`
	return q, []any{schema, table}
}
