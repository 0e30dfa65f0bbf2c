package session

import "sync"

// Manager keeps one Store per browser session, keyed by the opaque backend
// session-cookie value. Stores are created on demand and dropped on logout.
type Manager struct {
	mu       sync.Mutex
	stores   map[string]*Store
	onCreate func(*Store)
}

// NewManager returns an empty Manager. onCreate, if non-nil, runs once for
// every store the manager creates; callers use it to attach subscribers.
func NewManager(onCreate func(*Store)) *Manager {
	return &Manager{stores: make(map[string]*Store), onCreate: onCreate}
}

// For returns the Store for the given session id, creating it if needed.
func (m *Manager) For(sessionID string) *Store {
	m.mu.Lock()
	st, ok := m.stores[sessionID]
	if !ok {
		st = NewStore()
		m.stores[sessionID] = st
	}
	m.mu.Unlock()

	if !ok && m.onCreate != nil {
		m.onCreate(st)
	}
	return st
}

// Drop logs the store out and forgets it.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	st, ok := m.stores[sessionID]
	delete(m.stores, sessionID)
	m.mu.Unlock()

	if ok {
		st.Logout()
	}
}

// Len reports the number of live stores. Used by tests and diagnostics.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
