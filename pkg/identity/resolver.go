package identity

import "sync"

// Session is one authenticated login.
type Session struct {
	ID    string
	Token string
}

// SessionSource reports the sessions currently held by the caller. Either,
// both or neither may be present.
type SessionSource interface {
	UserSession() (Session, bool)
	BuyerSession() (Session, bool)
}

// Resolver turns the sessions of a SessionSource into one Identity.
type Resolver struct {
	source SessionSource
}

func NewResolver(source SessionSource) *Resolver {
	return &Resolver{source: source}
}

// CurrentIdentity resolves User > Buyer > Anonymous.
func (r *Resolver) CurrentIdentity() Identity {
	if r == nil || r.source == nil {
		return Anonymous
	}
	if s, ok := r.source.UserSession(); ok {
		return User(s.ID, s.Token)
	}
	if s, ok := r.source.BuyerSession(); ok {
		return Buyer(s.ID, s.Token)
	}
	return Anonymous
}

// MemorySessions is a SessionSource held in memory. Logins and logouts are
// applied with the Set and Clear methods.
type MemorySessions struct {
	mu    sync.RWMutex
	user  *Session
	buyer *Session
}

func (m *MemorySessions) UserSession() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return Session{}, false
	}
	return *m.user, true
}

func (m *MemorySessions) BuyerSession() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.buyer == nil {
		return Session{}, false
	}
	return *m.buyer, true
}

func (m *MemorySessions) SetUser(s Session) {
	m.mu.Lock()
	m.user = &s
	m.mu.Unlock()
}

func (m *MemorySessions) SetBuyer(s Session) {
	m.mu.Lock()
	m.buyer = &s
	m.mu.Unlock()
}

func (m *MemorySessions) ClearUser() {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
}

func (m *MemorySessions) ClearBuyer() {
	m.mu.Lock()
	m.buyer = nil
	m.mu.Unlock()
}
