// internal/locale/header.go
//
// Built-in Accept-Language resolver.
//
// Parses the comma-separated tag list with optional ";q=" quality
// factors (absent means 1.0).  The highest-quality tag wins; ties go to
// the tag listed first.  Malformed entries are skipped, and a header
// that yields nothing usable makes the resolver decline, it never
// errors.  The chain handles the system-default fallback.

package locale

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// HeaderResolver resolves the locale from the Accept-Language header.
// The chain registers it at priority 0 when no override exists.
type HeaderResolver struct{}

// Name identifies the resolver in logs and metrics.
func (HeaderResolver) Name() string { return "accept-language" }

// Resolve picks the best usable tag from the Accept-Language header, or
// declines when the header is absent, empty, or unsalvageable.  Entries
// that fail to parse are skipped, so one bad tag never hides the rest.
func (HeaderResolver) Resolve(r *http.Request) (Locale, bool) {
	for _, candidate := range rankedLanguages(r.Header.Get("Accept-Language")) {
		tag, err := language.Parse(candidate)
		if err != nil {
			continue
		}
		return Locale{tag: tag}, true
	}
	return Locale{}, false
}

// rankedLanguages returns the header's tags ordered by quality
// descending, first listed winning ties.  Malformed entries and
// wildcards are dropped.
func rankedLanguages(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	type entry struct {
		tag string
		q   float64
	}
	var entries []entry
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		tag := part
		q := 1.0
		if i := strings.IndexByte(part, ';'); i != -1 {
			tag = strings.TrimSpace(part[:i])
			parsed, ok := parseQuality(part[i+1:])
			if !ok {
				continue // malformed parameter, skip the entry
			}
			q = parsed
		}
		if tag == "" || tag == "*" || q <= 0 {
			continue
		}
		entries = append(entries, entry{tag: tag, q: q})
	}

	// Stable sort keeps header order for equal qualities.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].q > entries[j].q })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.tag
	}
	return out
}

// parseQuality extracts the q value from the parameter section after
// the first ";" ("q=0.9", possibly with extra parameters).
func parseQuality(params string) (float64, bool) {
	for _, p := range strings.Split(params, ";") {
		p = strings.TrimSpace(p)
		if !strings.HasPrefix(p, "q=") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimPrefix(p, "q="), 64)
		if err != nil || q < 0 || q > 1 {
			return 0, false
		}
		return q, true
	}
	// Parameters present but no q: treat as default quality.
	return 1.0, true
}
