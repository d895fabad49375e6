// cmd/homeadm/seed.go
//
// "homeadm seed" loads one CSV file into one table of an already
// provisioned tenant's schema, mirroring
// original_source's per-tenant CSV demo-data loaders: a header row names
// the columns, every other row is one INSERT, and any field matching
// "datenow()"/"dateadd(N,unit)" is resolved against wall-clock time
// before the row is written (internal/csvdate).
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/csvdate"
	"github.com/beresheet-platform/homeapi/internal/pool"
	"github.com/beresheet-platform/homeapi/internal/registry"
)

func runSeed(ctx context.Context, reg *registry.Service, pools *pool.Registry) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	name := fs.String("name", "", "tenant name")
	table := fs.String("table", "", "target table in the tenant's schema")
	csvPath := fs.String("csv", "", "path to the CSV file to load")
	fs.Parse(os.Args[2:])

	if *name == "" || *table == "" || *csvPath == "" {
		fatalf("seed: -name, -table, and -csv are required")
	}

	rec, err := reg.LookupByName(ctx, *name)
	if err != nil {
		fatalf("seed: lookup tenant %q: %v", *name, err)
	}

	db, err := pools.Acquire(ctx, pool.Credential{
		Schema:   rec.DatabaseSchema,
		User:     rec.Name,
		Password: rec.AdminUserPassword,
	})
	if err != nil {
		fatalf("seed: acquire pool for %q: %v", *name, err)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		fatalf("seed: open %s: %v", *csvPath, err)
	}
	defer f.Close()

	n, err := loadCSV(ctx, db, *table, f, time.Now())
	if err != nil {
		fatalf("seed: load %s into %s.%s: %v", *csvPath, rec.DatabaseSchema, *table, err)
	}
	fmt.Printf("seeded %d row(s) into %s.%s\n", n, rec.DatabaseSchema, *table)
}

// loadCSV reads a header row of column names followed by one record per
// row, resolves any csvdate expression in each field against now, and
// inserts the result into table one row at a time. Returns the number of
// rows inserted.
func loadCSV(ctx context.Context, db *sqlx.DB, table string, r io.Reader, now time.Time) (int, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	placeholders := make([]string, len(header))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(header, ", "), strings.Join(placeholders, ", "))

	count := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read row %d: %w", count+1, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		resolved := csvdate.EvalRow(row, now)

		args := make([]any, len(header))
		for i, col := range header {
			args[i] = resolved[col]
		}
		if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
			return count, fmt.Errorf("insert row %d: %w", count+1, err)
		}
		count++
	}
	return count, nil
}
