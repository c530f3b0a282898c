// internal/redirectscope/manager.go
//
// Redirect-scope lifecycle manager.
//
// Context
//   When a controller's outcome is a redirect, the pipeline calls
//   Persist(): the manager snapshots the request's bag, mints a fresh
//   token, stores the entry, and sets the carrier cookie on the redirect
//   response.  On the follow-up request Attach() reads and clears the
//   cookie and consumes the entry; the bag becomes that request's active
//   scope and the token is dead from then on.  Tokens are single-use and
//   never chain: a second redirect mints a new token over a new bag.
//
// Instrumentation
//   redirect_scope_active gauges pending entries; consumed, expired, and
//   miss counters cover every other transition.

package redirectscope

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/mvc/internal/metrics"
)

// CookieName carries the correlation token across the redirect hop.
const CookieName = "mvc_redirect"

// DefaultTTL bounds how long an unconsumed entry stays reachable.
const DefaultTTL = 10 * time.Minute

// Manager owns every entry transition.  Safe for concurrent use.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time // injectable clock for tests
}

// NewManager builds a Manager over the given store.  ttl <= 0 selects
// DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// Persist snapshots bag under a fresh token and attaches the carrier
// cookie to the redirect response.  An empty bag still persists: the
// consuming request may write into it before rendering.
func (m *Manager) Persist(w http.ResponseWriter, r *http.Request, bag Bag) error {
	now := m.now()
	e := &Entry{
		Token:     uuid.NewString(),
		Bag:       bag.Clone(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Put(e); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    e.Token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	metrics.RedirectScopeActive.Inc()
	return nil
}

// Attach consumes the token carried by r, if any, and returns the
// reattached bag.  Unknown, replayed, and expired tokens are treated as
// "no scope presented"; the request proceeds with ok == false.  The
// carrier cookie is cleared either way, so the token never re-travels.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request) (Bag, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	bag, ok, expired, err := m.store.Consume(c.Value, m.now())
	if err != nil {
		zap.S().Errorw("redirect scope consume failed", "err", err)
		return nil, false
	}
	if !ok {
		if expired {
			// The miss removed a pending entry; keep the gauge balanced.
			metrics.RedirectScopeActive.Dec()
		}
		metrics.RedirectScopeMissTotal.Inc()
		return nil, false
	}
	metrics.RedirectScopeActive.Dec()
	metrics.RedirectScopeConsumedTotal.Inc()
	return bag, true
}

// RunSweeper reaps orphaned entries every interval until ctx is done.
// The store's claim discipline makes the sweep safe against in-flight
// consumption: destroy-after-consume, never destroy-during-consume.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.store.Sweep(m.now())
			if err != nil {
				zap.S().Errorw("redirect scope sweep failed", "err", err)
				continue
			}
			if n > 0 {
				metrics.RedirectScopeActive.Sub(float64(n))
				metrics.RedirectScopeExpiredTotal.Add(float64(n))
				zap.S().Debugw("redirect scope sweep", "expired", n)
			}
		}
	}
}
