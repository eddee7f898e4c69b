package cart

import "sync"

// Sessions maps session IDs to carts. Carts are created on first use and
// live in memory only; there is no persistence and no eviction beyond
// Delete. Safe for concurrent use.
type Sessions struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewSessions returns an empty session store.
func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*Cart)}
}

// Get returns the cart for the session, creating it if absent.
func (s *Sessions) Get(sessionID string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	c = New()
	s.carts[sessionID] = c
	return c
}

// Peek returns the cart for the session without creating it.
func (s *Sessions) Peek(sessionID string) (*Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[sessionID]
	return c, ok
}

// Delete removes the session's cart.
func (s *Sessions) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
