// Package session drives the Anonymous/Authenticated transitions of the view
// state. It is re-entrant: login and logout may alternate indefinitely.
package session

import (
	"context"
	"log"
	"sync/atomic"

	"recipes-lab/internal/auth"
	"recipes-lab/internal/state"
	"recipes-lab/internal/userdata"
)

// Manager observes auth transitions and loads or clears the per-user
// mirrors. Each transition bumps a session epoch; a load still in flight
// when a newer transition lands is discarded.
type Manager struct {
	users userdata.Service
	state *state.Store
	epoch atomic.Int64
}

// NewManager creates a Manager over the persistence service and view state.
func NewManager(users userdata.Service, st *state.Store) *Manager {
	return &Manager{users: users, state: st}
}

// Bind subscribes the manager to a provider's session-change notifications.
func (m *Manager) Bind(p auth.Provider) {
	p.OnChange(m.HandleChange)
}

// HandleChange applies one session transition. On login the favorites and
// meal plan are loaded before the transition completes, so no read observes
// an authenticated session with empty mirrors that actually has data. On
// logout the mirrors are detached immediately with no persistence call.
func (m *Manager) HandleChange(s *auth.Session) {
	epoch := m.epoch.Add(1)

	if s == nil {
		m.state.ClearUser()
		return
	}

	ctx := context.Background()

	favorites, err := m.users.GetFavorites(ctx, s.UID)
	if err != nil {
		log.Printf("session: failed to load favorites for %s: %v", s.UID, err)
		favorites = nil
	}
	plan, err := m.users.GetMealPlan(ctx, s.UID)
	if err != nil {
		log.Printf("session: failed to load meal plan for %s: %v", s.UID, err)
		plan = nil
	}

	if m.epoch.Load() != epoch {
		log.Printf("session: discarding stale load for %s", s.UID)
		return
	}
	m.state.SetUser(s, favorites, plan)
}
