// Package session holds the per-browser login state. Sessions live in
// memory only and die with the process.
package session

import (
	"context"
	"sync"

	"diet-photo-diary/internal/diary"

	"github.com/google/uuid"
)

// Session is one logged-in browser session.
type Session struct {
	ID    string
	Token string
	User  diary.User
}

// Store maps session cookie ids to active sessions. Logins are delegated to
// the injected Authenticator (live backend or demo table).
type Store struct {
	mu   sync.RWMutex
	auth diary.Authenticator
	byID map[string]*Session
}

// NewStore creates an empty session store.
func NewStore(auth diary.Authenticator) *Store {
	return &Store{
		auth: auth,
		byID: make(map[string]*Session),
	}
}

// Login authenticates the code + PIN pair and, on success, creates a new
// session holding the issued token. The returned session id goes into the
// browser cookie.
func (s *Store) Login(ctx context.Context, code, pin string) (*Session, error) {
	creds, err := s.auth.Login(ctx, code, pin)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:    uuid.NewString(),
		Token: creds.Token,
		User:  creds.User,
	}

	s.mu.Lock()
	s.byID[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get returns the session for an id, if it is still logged in.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[id]
	return sess, ok
}

// LoggedIn reports whether the id belongs to an active session.
func (s *Store) LoggedIn(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Logout drops the session unconditionally. Unknown ids are a no-op.
func (s *Store) Logout(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}
