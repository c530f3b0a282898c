// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                       – dotenv values,
//   • `conf/global.yaml`                    – primary static file,
//   • `MVC_`-prefixed environment overrides – highest precedence.
//
// Any string value beginning with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • Durations are YAML strings ("10m", "45s") parsed by the loader.
//   • The `Paths` block is filled at runtime; YAML must not set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	BasePath   string `koanf:"base_path"` // mount point, e.g. "/app"; empty = root
}

//
// Locale section
//

// Locale configures the resolver chain.
type Locale struct {
	// Default is the system default locale, used when every resolver
	// declines.  Required: without it an empty chain is a fatal
	// configuration error on the first request.
	Default string `koanf:"default" validate:"required,bcp47_language_tag"`

	// GeoIPDB enables the GeoIP resolver when set to a GeoLite2 path.
	GeoIPDB string `koanf:"geoip_db"`

	// GeoCountries maps country ISO codes to locale tags ("US": "en-US").
	GeoCountries map[string]string `koanf:"geo_countries"`
}

//
// Redirect section
//

// Redirect configures outcome interpretation and the scope manager.
type Redirect struct {
	// Legacy302 switches redirect responses from 303 to 302 for old
	// clients that mishandle See Other.
	Legacy302 bool `koanf:"legacy_302"`

	// ScopeTTL bounds how long an unconsumed scope entry stays alive.
	ScopeTTL string `koanf:"scope_ttl"` // duration string, default "10m"

	// SweepInterval is the orphan sweeper's tick, default "1m".
	SweepInterval string `koanf:"sweep_interval"`

	// Store selects the entry store.  "mysql" shares entries across
	// instances and requires DSN.
	Store string `koanf:"store" validate:"omitempty,oneof=memory mysql"`

	// DSN for the mysql store.  The password portion typically comes
	// from Vault via a `vault:` value.
	DSN string `koanf:"dsn"`
}

// ScopeTTLDuration returns the parsed TTL; the loader validated it.
func (r Redirect) ScopeTTLDuration() time.Duration {
	d, _ := time.ParseDuration(r.ScopeTTL)
	return d
}

// SweepIntervalDuration returns the parsed sweep interval.
func (r Redirect) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(r.SweepInterval)
	return d
}

//
// Views section
//

// Views locates templates and translation message files.
type Views struct {
	Root     string `koanf:"root"`     // template root, default "views"
	Messages string `koanf:"messages"` // go-i18n TOML dir, default "localization"
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or MVC_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Locale   Locale   `koanf:"locale"`
	Redirect Redirect `koanf:"redirect"`
	Views    Views    `koanf:"views"`
	Paths    Paths    `koanf:"-"`
}
