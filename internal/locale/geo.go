// internal/locale/geo.go
//
// GeoIP locale resolver.
//
// Context
//   Sites that localize by market rather than by browser preference can
//   enable this resolver via config (locale.geoip_db plus a country to
//   locale table).  It looks up the client address in a GeoLite2
//   country database and maps the ISO code to a locale.  Lookups are
//   read-only and pool-based, so the resolver is safe under heavy
//   concurrency.
//
// Dependencies
//   github.com/oschwald/geoip2-golang (MaxMind lookup)

package locale

import (
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// GeoResolver maps the client IP's country to a configured locale.
// Applications typically register it at the default priority so explicit
// header overrides still win when an operator adds one above it.
type GeoResolver struct {
	reader *geoip2.Reader
	byISO  map[string]Locale
}

// NewGeoResolver opens the GeoLite2 database at dbPath and builds the
// country table from ISO code to locale tag ("US" -> "en-US").  Entries
// that fail to parse are reported via the returned error.
func NewGeoResolver(dbPath string, countries map[string]string) (*GeoResolver, error) {
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	byISO := make(map[string]Locale, len(countries))
	for iso, tag := range countries {
		loc, err := Make(tag)
		if err != nil {
			reader.Close()
			return nil, err
		}
		byISO[strings.ToUpper(iso)] = loc
	}
	return &GeoResolver{reader: reader, byISO: byISO}, nil
}

// Name identifies the resolver in logs and metrics.
func (g *GeoResolver) Name() string { return "geoip" }

// Resolve maps the client country to a locale, declining on unknown
// addresses, lookup failures, and unmapped countries.
func (g *GeoResolver) Resolve(r *http.Request) (Locale, bool) {
	ip := clientIP(r)
	if ip == nil {
		return Locale{}, false
	}
	rec, err := g.reader.Country(ip)
	if err != nil {
		return Locale{}, false
	}
	loc, ok := g.byISO[rec.Country.IsoCode]
	return loc, ok
}

// Close releases the MaxMind reader.
func (g *GeoResolver) Close() error { return g.reader.Close() }

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
