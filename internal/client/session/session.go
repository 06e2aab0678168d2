// Package session keeps the terminal client's credential and signed-in user
// in the local store and answers whether the user is still logged in.
//
// The credential is a JWT issued by the server. The client has no key to
// verify it, so only its exp claim is read.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/dmitrijs2005/diarify/internal/client/store"
	"github.com/golang-jwt/jwt/v5"
)

// Storage keys.
const (
	TokenKey = "token"
	UserKey  = "auth/user"
)

// IsTokenExpired reports whether token's exp claim lies before now. A token
// that cannot be decoded or has no exp claim counts as expired.
func IsTokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(now)
}

// Session is the lifecycle-scoped holder of the current user. The
// credential itself is always read from storage, never cached.
type Session struct {
	repo store.Repository
	now  func() time.Time

	mu   sync.RWMutex
	user *models.User
}

func New(repo store.Repository) *Session {
	return &Session{repo: repo, now: time.Now}
}

// Restore loads the persisted user, if any. A corrupt record is dropped.
func (s *Session) Restore(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var user *models.User
	if raw != nil {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			if err := s.repo.Delete(ctx, UserKey); err != nil {
				return fmt.Errorf("drop corrupt session: %w", err)
			}
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Token returns the stored credential, "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	raw, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return string(raw), nil
}

// Save persists the credential and the user it was issued to.
func (s *Session) Save(ctx context.Context, token string, user models.User) error {
	if err := s.repo.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.Set(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("store user: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Clear forgets both the credential and the user.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if err := s.repo.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// User returns a copy of the current user, nil when signed out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoggedIn reports whether a credential is stored and not yet expired.
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	return !IsTokenExpired(token, s.now())
}
