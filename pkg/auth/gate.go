package auth

import (
	"context"
	"sync"
)

// SessionAPI is the slice of the auth service the gate depends on.
type SessionAPI interface {
	GetSession(ctx context.Context, token string) (*Session, error)
	OnSessionChange(fn func(*Session)) *Subscription
	CheckAdminRole(ctx context.Context, session *Session) (bool, error)
}

// Gate derives the two booleans the navigation layer keys off: whether a
// session is active and whether it carries the admin role. It refreshes
// once at construction and on every session-change notification. It never
// errors; any failure collapses to false.
type Gate struct {
	svc SessionAPI
	sub *Subscription

	mu         sync.RWMutex
	hasSession bool
	isAdmin    bool
}

// NewGate builds a gate seeded from token and subscribed to session
// changes. Call Close on teardown to release the subscription.
func NewGate(svc SessionAPI, token string) *Gate {
	g := &Gate{svc: svc}

	session, err := svc.GetSession(context.Background(), token)
	if err != nil {
		session = nil
	}
	g.apply(session)

	g.sub = svc.OnSessionChange(g.apply)
	return g
}

func (g *Gate) apply(session *Session) {
	admin := false
	if session != nil {
		if ok, err := g.svc.CheckAdminRole(context.Background(), session); err == nil {
			admin = ok
		}
	}

	g.mu.Lock()
	g.hasSession = session != nil
	g.isAdmin = admin
	g.mu.Unlock()
}

func (g *Gate) HasActiveSession() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasSession
}

func (g *Gate) IsPrivilegedRole() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isAdmin
}

func (g *Gate) Close() {
	g.sub.Unsubscribe()
}
