package importer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewSessionCode generates a short, user-visible import session code.
func NewSessionCode() string {
	return fmt.Sprintf("IMPORT-%s", strings.ToUpper(uuid.New().String()[:8]))
}

// SessionManager keeps the live review grids of the process, one per
// session code. A grid is created lazily on first review load and dropped
// on commit or abandon; the staged batch in the staging store is the
// durable part that survives a restart.
type SessionManager struct {
	mu    sync.Mutex
	grids map[string]*Grid
}

func NewSessionManager() *SessionManager {
	return &SessionManager{grids: map[string]*Grid{}}
}

// Get returns the live grid for a session code, if any.
func (m *SessionManager) Get(sessionCode string) (*Grid, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grids[sessionCode]
	return g, ok
}

// Put registers a loaded grid, replacing any previous one for the code.
func (m *SessionManager) Put(g *Grid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[g.SessionCode()] = g
}

// Drop forgets a session. Any in-flight validation simply settles and its
// result is discarded.
func (m *SessionManager) Drop(sessionCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grids, sessionCode)
}
