// internal/schemaddl/demo.go
//
// Demo is a minimal, engine-agnostic Bootstrapper: each table is a plain
// id/name/jsonish-columns shape sufficient to exercise the capacity-guard
// registration flow (internal/handlers/events) and the create/delete
// round trip end to end in tests. Real deployments replace this with a
// proper migration tool; Demo exists only so this repo is runnable
// without one.
package schemaddl

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/apperr"
)

// Demo implements Bootstrapper with CREATE TABLE IF NOT EXISTS statements
// against whatever engine tenantDB is already connected to.
type Demo struct{}

func (Demo) Bootstrap(ctx context.Context, tenantDB *sqlx.DB, schema string) error {
	for _, stmt := range demoDDL(schema) {
		if _, err := tenantDB.ExecContext(ctx, stmt); err != nil {
			return apperr.Wrap(apperr.QueryFailed, fmt.Sprintf("schemaddl bootstrap %q", schema), err)
		}
	}
	return nil
}

func demoDDL(schema string) []string {
	t := func(name string) string { return fmt.Sprintf("%s.%s", schema, name) }
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, name VARCHAR(200), starts_at DATETIME,
			max_participants INT NOT NULL DEFAULT 0, current_participants INT NOT NULL DEFAULT 0)`,
			t("events")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, event_id INT, full_name VARCHAR(200))`,
			t("event_instructor")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, event_id INT, image_url VARCHAR(500))`,
			t("event_gallery")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, name VARCHAR(200), capacity INT)`,
			t("rooms")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, name VARCHAR(200))`,
			t("service_provider_types")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, phone_number VARCHAR(32), full_name VARCHAR(200), role VARCHAR(32))`,
			t("users")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, event_id INT NOT NULL, user_id INT NOT NULL, created_at DATETIME)`,
			t("events_registration")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, user_id INT, body VARCHAR(1000), read_at DATETIME NULL)`,
			t("user_notification")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, body VARCHAR(1000), created_at DATETIME)`,
			t("home_notification")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY, user_id INT, subject VARCHAR(200), status VARCHAR(32))`,
			t("requests")),
	}
}
