// Command homeadm is a thin CLI wrapper over internal/registry's
// create/delete/list operations, mirroring
// original_source/api_service/tenants/admin/* and
// deployment/admin/*'s standalone provisioning scripts: one process per
// invocation, no server, no long-lived state beyond one DB connection.
//
// Usage:
//
//	homeadm list
//	homeadm create -name acme -admin-email ops@acme.example
//	homeadm delete -name acme
//	homeadm seed -name acme -table events -csv events.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/config"
	"github.com/beresheet-platform/homeapi/internal/pool"
	"github.com/beresheet-platform/homeapi/internal/registry"
	"github.com/beresheet-platform/homeapi/internal/schemaddl"
	"github.com/beresheet-platform/homeapi/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("config load: %v", err)
	}

	global, err := sqlx.Open("mysql", cfg.Database.GlobalDSN)
	if err != nil {
		fatalf("global db open: %v", err)
	}
	defer global.Close()
	if err := global.Ping(); err != nil {
		fatalf("global db ping: %v", err)
	}

	var storageProvider storage.Provider
	switch cfg.Storage.Provider {
	case "local":
		storageProvider = storage.NewLocal(cfg.Storage.LocalBaseDir, cfg.Storage.PublicBase, cfg.Storage.SignedTTL)
	default:
		storageProvider = storage.Noop{}
	}

	reg, err := registry.New(global, cfg.Database, cfg.Cache, storageProvider, schemaddl.Demo{})
	if err != nil {
		fatalf("registry init: %v", err)
	}

	pools, err := pool.New(cfg.Database)
	if err != nil {
		fatalf("pool registry init: %v", err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "list":
		runList(ctx, reg)
	case "create":
		runCreate(ctx, reg)
	case "delete":
		runDelete(ctx, reg)
	case "seed":
		runSeed(ctx, reg, pools)
	default:
		usage()
		os.Exit(2)
	}
}

func runList(ctx context.Context, reg *registry.Service) {
	rows, err := reg.ListAll(ctx)
	if err != nil {
		fatalf("list tenants: %v", err)
	}
	for _, rec := range rows {
		fmt.Printf("%-20s %-16s %-10s %-20s %s\n", rec.Name, rec.DatabaseName, rec.DatabaseType, rec.DatabaseSchema, rec.AdminUserEmail)
	}
}

func runCreate(ctx context.Context, reg *registry.Service) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "tenant name (also used as database schema)")
	adminEmail := fs.String("admin-email", "", "tenant admin user email")
	fs.Parse(os.Args[2:])

	if *name == "" || *adminEmail == "" {
		fatalf("create: -name and -admin-email are required")
	}

	password := uuid.New().String()
	rec, err := reg.Create(ctx, registry.CreateRequest{Name: *name, AdminUserEmail: *adminEmail}, password)
	if err != nil {
		fatalf("create tenant: %v", err)
	}
	fmt.Printf("created tenant %q (schema=%s, admin_user_password=%s)\n", rec.Name, rec.DatabaseSchema, password)
}

func runDelete(ctx context.Context, reg *registry.Service) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("name", "", "tenant name")
	fs.Parse(os.Args[2:])

	if *name == "" {
		fatalf("delete: -name is required")
	}
	if err := reg.Delete(ctx, *name); err != nil {
		fatalf("delete tenant: %v", err)
	}
	fmt.Printf("deleted tenant %q\n", *name)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: homeadm <list|create|delete|seed> [flags]")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "homeadm: "+format+"\n", args...)
	os.Exit(1)
}
