// Package session keeps the portal's authentication state: the token pair returned at login
// and a cached copy of the current user's profile.
package session

import (
	"errors"
	"sync"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("no session")

// Profile is the cached subset of the current user shown by the navigation shell.
type Profile struct {
	ID        int    `json:"id"`
	Role      string `json:"role"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

type Session struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	Profile Profile `json:"profile"`
}

// Store persists a single Session.
type Store interface {
	Save(s Session) error
	Load() (Session, error)
	Clear() error
}

// MemoryStore keeps the session in memory; safe for concurrent use.
type MemoryStore struct {
	mu  sync.RWMutex
	s   Session
	set bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.set = s, true
	return nil
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || m.s.Access == "" {
		return Session{}, ErrNoSession
	}
	return m.s, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.set = Session{}, false
	return nil
}
