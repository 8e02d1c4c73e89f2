package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SessionUser is the signed-in back-office user.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthSession is the bearer token plus the serialized current user. It is
// the only durable client-side state.
type AuthSession struct {
	Token     string      `json:"token"`
	User      SessionUser `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Valid reports whether the session has a token that has not expired. A
// zero ExpiresAt means the server did not say.
func (s AuthSession) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// SessionStore is the single read/write boundary for the stored session.
type SessionStore interface {
	Load() (AuthSession, error)
	Save(s AuthSession) error
	Clear() error
}

// FileSessionStore keeps the session as JSON in one file.
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSessionStore stores the session at path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// DefaultSessionPath is ~/.config/voltedge/admin-session.json or the
// platform equivalent.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "voltedge", "admin-session.json")
}

// Load returns the stored session, or a zero session if none exists.
func (s *FileSessionStore) Load() (AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return AuthSession{}, nil
	}
	if err != nil {
		return AuthSession{}, fmt.Errorf("failed to read session: %w", err)
	}

	var session AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return AuthSession{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

// Save writes the session with owner-only permissions.
func (s *FileSessionStore) Save(session AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Verifier confirms a token with the server.
type Verifier interface {
	Verify(ctx context.Context, token string) (SessionUser, error)
}

// Gate guards protected back-office operations.
type Gate struct {
	store    SessionStore
	verifier Verifier
	now      func() time.Time
}

// NewGate creates a gate over store and verifier.
func NewGate(store SessionStore, verifier Verifier) *Gate {
	return &Gate{store: store, verifier: verifier, now: time.Now}
}

// Check returns the active session. A missing or expired token yields
// ErrNotAuthenticated. A token the server rejects is cleared from the store
// and yields ErrAuthCheckFailed, which callers treat as signed out.
func (g *Gate) Check(ctx context.Context) (AuthSession, error) {
	session, err := g.store.Load()
	if err != nil {
		return AuthSession{}, err
	}
	if !session.Valid(g.now()) {
		if session.Token != "" {
			if err := g.store.Clear(); err != nil {
				return AuthSession{}, errors.Join(ErrNotAuthenticated, err)
			}
		}
		return AuthSession{}, ErrNotAuthenticated
	}

	user, err := g.verifier.Verify(ctx, session.Token)
	if err != nil {
		if clearErr := g.store.Clear(); clearErr != nil {
			return AuthSession{}, errors.Join(ErrAuthCheckFailed, clearErr)
		}
		return AuthSession{}, fmt.Errorf("%w: %w", ErrAuthCheckFailed, err)
	}
	if user.ID != "" {
		session.User = user
	}
	return session, nil
}

// SignIn stores a freshly issued session.
func (g *Gate) SignIn(session AuthSession) error {
	if session.Token == "" {
		return ErrNotAuthenticated
	}
	return g.store.Save(session)
}

// SignOut forgets the stored session.
func (g *Gate) SignOut() error {
	return g.store.Clear()
}

// Token returns the stored token without contacting the server.
func (g *Gate) Token() string {
	session, err := g.store.Load()
	if err != nil || !session.Valid(g.now()) {
		return ""
	}
	return session.Token
}
