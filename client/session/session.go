// Package session holds the signed-in user of a CRM client: the bearer
// token, the public profile that came with it and when the token expires.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muhammadheryan/crm/model"
)

var ErrNoSession = errors.New("no active session")

// Snapshot is what a Store persists between runs.
type Snapshot struct {
	Token     string             `json:"token"`
	User      model.UserResponse `json:"user"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

// Store persists a snapshot. Load returns nil, nil when nothing is stored.
type Store interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
	Clear() error
}

type Session struct {
	mu      sync.RWMutex
	store   Store
	now     func() time.Time
	current *Snapshot
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(store Store, opts ...Option) *Session {
	s := &Session{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores a stored session, discarding it when already expired.
func (s *Session) Init() error {
	snap, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil || snap.Token == "" || !s.now().Before(snap.ExpiresAt) {
		s.current = nil
		if snap != nil {
			return s.store.Clear()
		}
		return nil
	}
	s.current = snap
	return nil
}

// Login records a freshly issued token. The expiry is read from the token's
// exp claim; the signature is the server's business.
func (s *Session) Login(tokenString string, user model.UserResponse) error {
	expiresAt, err := TokenExpiry(tokenString)
	if err != nil {
		return err
	}
	snap := &Snapshot{Token: tokenString, User: user, ExpiresAt: expiresAt}
	if err := s.store.Save(snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
	return nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// Token returns the bearer token, or ErrNoSession when signed out or expired.
// An expired session is cleared on the way.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	snap := s.current
	s.mu.RUnlock()

	if snap == nil {
		return "", ErrNoSession
	}
	if !s.now().Before(snap.ExpiresAt) {
		_ = s.Logout()
		return "", ErrNoSession
	}
	return snap.Token, nil
}

func (s *Session) User() (model.UserResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.UserResponse{}, false
	}
	return s.current.User, true
}

func (s *Session) IsAdmin() bool {
	user, ok := s.User()
	return ok && user.Role.IsAdmin()
}

// TokenExpiry extracts exp without verifying the signature.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
