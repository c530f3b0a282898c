// internal/redirectscope/entry.go
//
// Redirect-scope data types.
//
// A Bag is the scoped key-value state a controller writes before
// redirecting.  The manager snapshots it into an Entry keyed by a
// single-use token; the entry lives until the correlated follow-up
// request consumes it or the expiry window lapses.

package redirectscope

import "time"

// Bag holds the values that survive exactly one redirect hop.
type Bag map[string]any

// Clone returns a shallow copy, so later writes by the producing request
// never leak into the persisted snapshot (or vice versa).
func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Entry is one persisted redirect scope.  Owned exclusively by the
// store; callers only ever see the Bag.
type Entry struct {
	Token     string
	Bag       Bag
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry's window has lapsed at now.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
