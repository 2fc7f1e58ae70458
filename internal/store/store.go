package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"ecoshop/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLoginTaken   = errors.New("login already exists")
)

// Snapshot is an immutable view of the application state. Callers of
// Store.Snapshot must not modify it; Store.Update hands out a private copy.
type Snapshot struct {
	Users     map[string]model.User
	Community model.Impact
	Donations []model.Donation
}

func (s *Snapshot) User(id string) (model.User, bool) {
	u, ok := s.Users[id]
	return u, ok
}

func (s *Snapshot) UserByLogin(login string) (model.User, bool) {
	for _, u := range s.Users {
		if u.Login == login {
			return u, true
		}
	}
	return model.User{}, false
}

// PutUser inserts or replaces a user, enforcing unique logins.
func (s *Snapshot) PutUser(u model.User) error {
	if existing, ok := s.UserByLogin(u.Login); ok && existing.ID != u.ID {
		return ErrLoginTaken
	}
	s.Users[u.ID] = u
	return nil
}

func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		Users:     make(map[string]model.User, len(s.Users)),
		Community: s.Community,
		Donations: make([]model.Donation, len(s.Donations)),
	}
	for id, u := range s.Users {
		c.Users[id] = u
	}
	copy(c.Donations, s.Donations)
	return c
}

// Store owns the user directory, the community aggregate and the donation
// ledger. Reads are lock-free; writes are serialized and swap the whole
// snapshot, so readers see either the old or the new state.
type Store struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

func New() *Store {
	s := &Store{}
	s.snap.Store(&Snapshot{Users: make(map[string]model.User)})
	return s
}

func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Update applies fn to a copy of the current snapshot and publishes it.
// If fn returns an error the current snapshot is kept.
func (s *Store) Update(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Load().clone()
	if err := fn(next); err != nil {
		return err
	}
	s.snap.Store(next)
	return nil
}

func (s *Store) GetUser(id string) (model.User, error) {
	u, ok := s.Snapshot().User(id)
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", id, ErrUserNotFound)
	}
	return u, nil
}
