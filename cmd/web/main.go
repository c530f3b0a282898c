// cmd/web/main.go
//
// HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate config; any configuration error refuses to start.
//
//  4. Build the capability registry and register the optional GeoIP
//     locale resolver.
//
//  5. Build the redirect-scope store (memory, or MySQL when configured),
//     its manager, the view engine, and the pipeline.
//
//  6. Register controllers; a metadata rejection aborts boot.
//
//  7. Serve under an errgroup: HTTP server + orphan sweeper, both wired
//     to SIGINT/SIGTERM for graceful shutdown.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/mvc/internal/component"
	"github.com/yanizio/mvc/internal/config"
	"github.com/yanizio/mvc/internal/database"
	"github.com/yanizio/mvc/internal/locale"
	"github.com/yanizio/mvc/internal/logger"
	"github.com/yanizio/mvc/internal/middleware"
	"github.com/yanizio/mvc/internal/outcome"
	"github.com/yanizio/mvc/internal/pipeline"
	"github.com/yanizio/mvc/internal/redirectscope"
	"github.com/yanizio/mvc/internal/reqctx"
	"github.com/yanizio/mvc/internal/server"
	"github.com/yanizio/mvc/internal/view"
)

const serverEnvPath = "/usr/local/etc/mvc/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Locale resolver chain ───────────────────────────────────────
	//
	registry := component.New()
	if cfg.Locale.GeoIPDB != "" {
		geo, err := locale.NewGeoResolver(cfg.Locale.GeoIPDB, cfg.Locale.GeoCountries)
		if err != nil {
			logOut.Fatalf("open geoip resolver: %v", err)
		}
		defer geo.Close()
		registry.Register(locale.ResolverCapability, geo, component.Meta{})
		logOut.Infow("geoip resolver registered", "db", cfg.Locale.GeoIPDB)
	}
	chain := locale.NewChain(registry, locale.MustMake(cfg.Locale.Default))

	//
	// ── 3.  Redirect-scope manager ──────────────────────────────────────
	//
	var store redirectscope.Store = redirectscope.NewMemoryStore()
	if cfg.Redirect.Store == "mysql" {
		db, err := database.Open(cfg.Redirect.DSN)
		if err != nil {
			logOut.Fatalf("open redirect-scope DB: %v", err)
		}
		defer db.Close()
		store = redirectscope.NewSQLStore(db)
		logOut.Infow("redirect-scope store online", "kind", "mysql")
	}
	scopes := redirectscope.NewManager(store, cfg.Redirect.ScopeTTLDuration())

	//
	// ── 4.  View engine ─────────────────────────────────────────────────
	//
	bundle, err := view.NewBundle(locale.MustMake(cfg.Locale.Default),
		filepath.Join(cfg.Paths.Root, cfg.Views.Messages))
	if err != nil {
		logOut.Fatalf("load translations: %v", err)
	}
	views := view.NewTemplateEngine(filepath.Join(cfg.Paths.Root, cfg.Views.Root), bundle)

	//
	// ── 5.  Pipeline and controllers ────────────────────────────────────
	//
	pipe := pipeline.New(chain, scopes, views, outcome.Options{
		BasePath:       cfg.HTTP.BasePath,
		LegacyRedirect: cfg.Redirect.Legacy302,
	})
	if err := registerControllers(pipe); err != nil {
		logOut.Fatalf("register controllers: %v", err)
	}

	//
	// ── 6.  Router assembly ─────────────────────────────────────────────
	//
	root := chi.NewRouter()
	root.Use(middleware.Security)
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/", pipe.Handler())

	//
	// ── 7.  Serve: HTTP + orphan sweeper under one lifecycle ────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, root)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, srv) })
	g.Go(func() error {
		scopes.RunSweeper(gctx, cfg.Redirect.SweepIntervalDuration())
		return nil
	})

	logOut.Infow("serving", "addr", cfg.HTTP.ListenAddr)
	if err := g.Wait(); err != nil {
		logOut.Fatalf("serve: %v", err)
	}
	logOut.Infow("shutdown complete")
}

// registerControllers mounts the demo routes.  Applications replace
// this with their own controller set; any metadata error aborts boot.
func registerControllers(p *pipeline.Pipeline) error {
	// Home: plain view path return.
	if err := p.Register(http.MethodGet, "/", outcome.MethodMeta{
		Return:      outcome.ReturnString,
		DefaultView: "home.tpl",
	}, func(ctx *reqctx.Context) (any, error) {
		loc, err := ctx.Locale()
		if err != nil {
			return nil, err
		}
		ctx.Set("locale", loc.String())
		return "home.tpl", nil
	}); err != nil {
		return err
	}

	// Save: writes a flash note into the outbound scope and redirects.
	if err := p.Register(http.MethodPost, "/save", outcome.MethodMeta{
		Return: outcome.ReturnString,
	}, func(ctx *reqctx.Context) (any, error) {
		ctx.NextScope()["flash"] = "changes saved"
		return "redirect:/done", nil
	}); err != nil {
		return err
	}

	// Done: renders whatever note survived the hop.
	return p.Register(http.MethodGet, "/done", outcome.MethodMeta{
		Return:      outcome.ReturnVoid,
		DefaultView: "done.tpl",
	}, func(ctx *reqctx.Context) (any, error) {
		ctx.Set("flash", ctx.Scope()["flash"])
		return nil, nil
	})
}
