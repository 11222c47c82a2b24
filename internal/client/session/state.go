// Package session holds the client's single source of truth about the
// authenticated identity: the session state singleton and the controller
// that owns every mutation of it.
package session

import (
	"sync"

	"github.com/mzaikin/caseport/internal/client/models"
)

// Snapshot is an immutable view of the session at one point in time.
// Observers (route guard, views) work exclusively on snapshots; they never
// see or touch the live state.
type Snapshot struct {
	Token   string
	User    *models.User
	Loading bool
}

// Listener receives a snapshot after every state change. Listeners are
// invoked synchronously in subscription order.
type Listener func(Snapshot)

// State is the process-wide session state: {token, user, loading}.
//
// Exactly one instance exists per client process. It starts loading until
// the controller has consulted the credential store. All mutation happens
// through the Controller in this package; every other component is a
// read-only observer.
//
// Known limitation, matching the platform's design: state is not shared
// across processes. Two concurrently running clients for the same profile
// can diverge until the stale one's next API call is rejected.
type State struct {
	mu        sync.RWMutex
	token     string
	user      *models.User
	loading   bool
	listeners []Listener
}

// NewState returns a fresh state: loading, no token, no user.
func NewState() *State {
	return &State{loading: true}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	var user *models.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{Token: s.token, User: user, Loading: s.loading}
}

// Subscribe registers a listener notified after every state change.
func (s *State) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// mutate applies fn under the write lock, then notifies listeners with the
// resulting snapshot. Keeping the notification outside the lock lets a
// listener read state again without deadlocking.
func (s *State) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *State) setToken(token string) {
	s.mutate(func() { s.token = token })
}

func (s *State) setUser(user *models.User) {
	s.mutate(func() { s.user = user })
}

// setSession installs token and user in one step so no observer can see a
// token without its matching user on the login path.
func (s *State) setSession(token string, user *models.User) {
	s.mutate(func() {
		s.token = token
		s.user = user
	})
}

func (s *State) clearSession() {
	s.mutate(func() {
		s.token = ""
		s.user = nil
	})
}

func (s *State) finishLoading() {
	s.mutate(func() { s.loading = false })
}
