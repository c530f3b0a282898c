// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `MVC_`, where `__` maps to “.”
     (e.g., `MVC_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, string values prefixed `vault:` are swapped for their
Vault KV-v2 secrets, the tree is unmarshalled into strongly-typed
structs, defaults are applied, durations are parsed, the result is
validated, and finally cached in an `atomic.Pointer` for lock-free
reads.  `Reload()` simply calls `Load()` again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/mvc/internal/fault"
	"github.com/yanizio/mvc/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves MVC_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("MVC_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault values,
// validates, and caches Config.  Any failure is a configuration error.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fault.Config(err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: MVC_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("MVC_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, "MVC_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fault.Config(err)
	}

	if err := resolveVaultValues(ctx, k); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, fault.Config(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fault.Config(err)
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fault.Config(err)
	}
	if err := validateDurations(&cfg); err != nil {
		zap.S().Errorw("config duration parse failed", "err", err)
		return nil, fault.Config(err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"base_path", cfg.HTTP.BasePath,
		"default_locale", cfg.Locale.Default,
		"scope_store", cfg.Redirect.Store,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── vault overlay ────────────────────────────────*/

// resolveVaultValues swaps every `vault:<path>#<key>` string in the tree
// for its secret.  The client is only constructed when at least one such
// value exists, so Vault-less deployments need no VAULT_ADDR.
func resolveVaultValues(ctx context.Context, k *koanf.Koanf) error {
	var cli *vault.Client
	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !strings.HasPrefix(s, "vault:") {
			continue
		}
		if cli == nil {
			var err error
			if cli, err = vault.New(ctx); err != nil {
				return err
			}
		}
		secret, err := cli.Resolve(ctx, strings.TrimPrefix(s, "vault:"))
		if err != nil {
			return err
		}
		if err := k.Set(key, secret); err != nil {
			return err
		}
	}
	return nil
}

/*──────────────────────────── defaults ─────────────────────────────────────*/

// applyDefaults fills the optional knobs the YAML may omit.
func applyDefaults(c *Config) {
	if c.Redirect.ScopeTTL == "" {
		c.Redirect.ScopeTTL = "10m"
	}
	if c.Redirect.SweepInterval == "" {
		c.Redirect.SweepInterval = "1m"
	}
	if c.Redirect.Store == "" {
		c.Redirect.Store = "memory"
	}
	if c.Views.Root == "" {
		c.Views.Root = "views"
	}
	if c.Views.Messages == "" {
		c.Views.Messages = "localization"
	}
}

// validateDurations rejects unparseable or non-positive durations.
func validateDurations(c *Config) error {
	for name, s := range map[string]string{
		"redirect.scope_ttl":      c.Redirect.ScopeTTL,
		"redirect.sweep_interval": c.Redirect.SweepInterval,
	} {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		if d <= 0 {
			return fault.Configf("config: %s must be positive, got %q", name, s)
		}
	}
	if c.Redirect.Store == "mysql" && c.Redirect.DSN == "" {
		return fault.Configf("config: redirect.store=mysql requires redirect.dsn")
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last loaded Config.
func Get() *Config { return current.Load() }

// Reload re-runs Load and swaps the cached pointer.
func Reload(ctx context.Context) error { _, err := Load(ctx); return err }
