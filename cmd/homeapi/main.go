// Command homeapi boots the multi-tenant residents-community HTTP server.
//
// Startup sequence:
//  1. Load configuration (conf/global.yaml + HOMEAPI_ env overrides + Vault).
//  2. Install the structured file/stdout logger.
//  3. Open the control-plane MySQL connection (admin + home_index schemas).
//  4. Build the tenant registry, pool registry, reflector, phone index,
//     storage provider, and JWT issuers.
//  5. Project every canonical domain route under "/{tenant}" behind the
//     validation gate; mount the admin surface and the pre-tenant
//     discovery endpoints alongside it.
//  6. Listen and serve.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/beresheet-platform/homeapi/internal/admin"
	"github.com/beresheet-platform/homeapi/internal/authtoken"
	"github.com/beresheet-platform/homeapi/internal/config"
	"github.com/beresheet-platform/homeapi/internal/gate"
	"github.com/beresheet-platform/homeapi/internal/handlers"
	"github.com/beresheet-platform/homeapi/internal/logger"
	"github.com/beresheet-platform/homeapi/internal/middleware"
	"github.com/beresheet-platform/homeapi/internal/phoneindex"
	"github.com/beresheet-platform/homeapi/internal/pool"
	"github.com/beresheet-platform/homeapi/internal/project"
	reflectcache "github.com/beresheet-platform/homeapi/internal/reflect"
	"github.com/beresheet-platform/homeapi/internal/registry"
	"github.com/beresheet-platform/homeapi/internal/schemaddl"
	"github.com/beresheet-platform/homeapi/internal/server"
	"github.com/beresheet-platform/homeapi/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not installed yet; stderr is the only option.
		os.Stderr.WriteString("homeapi: config load failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	lg, err := logger.New(cfg.Paths.Root, isTTY())
	if err != nil {
		os.Stderr.WriteString("homeapi: logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer lg.Sync()

	global, err := sqlx.Open("mysql", cfg.Database.GlobalDSN)
	if err != nil {
		lg.Fatal("global db open", zap.Error(err))
	}
	defer global.Close()
	if err := global.Ping(); err != nil {
		lg.Fatal("global db ping", zap.Error(err))
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
		lg.Fatal("registry init", zap.Error(err))
	}

	pools, err := pool.New(cfg.Database)
	if err != nil {
		lg.Fatal("pool registry init", zap.Error(err))
	}

	phones, err := phoneindex.New(global, cfg.Cache)
	if err != nil {
		lg.Fatal("phone index init", zap.Error(err))
	}

	reflector, err := reflectcache.New(cfg.Database.Engine, 0)
	if err != nil {
		lg.Fatal("table reflector init", zap.Error(err))
	}

	webIssuer := authtoken.New(cfg.Auth.WebSecret)
	adminIssuer := authtoken.New(cfg.Auth.AdminSecret)

	g := gate.New(reg, pools, webIssuer, lg)
	auth := &handlers.Auth{Web: webIssuer, AccessTTL: cfg.Auth.AccessTokenTTL, RefreshTTL: cfg.Auth.RefreshTokenTTL}
	discovery := &handlers.Discovery{Index: phones}
	events := &handlers.Events{Reflect: reflector}

	r := chi.NewRouter()
	r.Use(middleware.Security)
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) { rootIndex(reg, w, req) })
	r.Get("/health", handlers.Health)
	r.Get("/api/health", handlers.Health)
	r.Get("/api/home_index/get_home_by_phone", discovery.HomeByPhone)
	r.Get("/api/users/get_user_home", discovery.UserHome)

	project.Project(r, g, []project.Route{
		{Method: http.MethodGet, Path: "/api/health", Handler: handlers.TenantHealth, OperationID: "health"},
		{Method: http.MethodPost, Path: "/api/auth/login", Handler: auth.Login, OperationID: "auth_login"},
		{Method: http.MethodPost, Path: "/api/auth/refresh", Handler: auth.Refresh, OperationID: "auth_refresh"},
		{Method: http.MethodPost, Path: "/api/auth/logout", Handler: auth.Logout, OperationID: "auth_logout"},
		{Method: http.MethodPost, Path: "/api/events/register", Handler: events.Register, OperationID: "events_register"},
		{Method: http.MethodPost, Path: "/api/events/unregister", Handler: events.Unregister, OperationID: "events_unregister"},
		{Method: http.MethodGet, Path: "/login", Handler: handlers.LoginPage, OperationID: "login_page"},
		{Method: http.MethodGet, Path: "/login/{asset}", Handler: handlers.LoginAsset, OperationID: "login_asset"},
		{Method: http.MethodGet, Path: "/web", Handler: handlers.WebApp, OperationID: "web_app"},
		{Method: http.MethodGet, Path: "/web/{asset}", Handler: handlers.WebAsset, OperationID: "web_asset"},
	})

	admin.New(reg, adminIssuer).Mount(r)

	srv := server.New(cfg.HTTP.ListenAddr, r)

	go func() {
		lg.Info("listening", zap.String("addr", cfg.HTTP.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server", zap.Error(err))
		}
	}()

	waitForShutdown(srv, lg)
}

func rootIndex(reg *registry.Service, w http.ResponseWriter, r *http.Request) {
	rows, err := reg.ListAll(r.Context())
	if err != nil {
		http.Error(w, "tenant list unavailable", http.StatusInternalServerError)
		return
	}
	type link struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	links := make([]link, 0, len(rows))
	for _, rec := range rows {
		links = append(links, link{Name: rec.Name, URL: "/" + rec.Name + "/web"})
	}
	writeJSON(w, links)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func waitForShutdown(srv *http.Server, lg *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	lg.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
