// Package auth is the session boundary: it only models session start/end
// events, not an authentication protocol.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Session identifies the active user. Absence (nil) means anonymous; its
// presence is the sole gate for favorites/meal-plan mutations.
type Session struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Provider emits session-change notifications. Login and Logout are
// fallible; on failure the session stays in its prior state and no partial
// session is ever exposed.
type Provider interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	// OnChange registers a listener invoked synchronously with the new
	// session (nil on logout) inside the transition.
	OnChange(fn func(*Session))
	Current() *Session
}

// TokenProvider derives sessions from a signed ID token on disk (HS256,
// shared secret). It stands in for an external identity provider at the
// session start/end boundary.
type TokenProvider struct {
	secret    []byte
	tokenPath string

	mu        sync.Mutex
	current   *Session
	listeners []func(*Session)
}

var _ Provider = (*TokenProvider)(nil)

// NewTokenProvider creates a provider reading ID tokens from tokenPath.
func NewTokenProvider(secret, tokenPath string) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), tokenPath: tokenPath}
}

// OnChange registers a session-change listener.
func (p *TokenProvider) OnChange(fn func(*Session)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Current returns the active session, or nil when anonymous.
func (p *TokenProvider) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Login reads and verifies the ID token and, on success, transitions to
// Authenticated, notifying listeners before returning.
func (p *TokenProvider) Login(ctx context.Context) error {
	raw, err := os.ReadFile(p.tokenPath)
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}

	session, err := p.parseToken(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("failed to verify session token: %w", err)
	}

	p.mu.Lock()
	p.current = session
	listeners := append([]func(*Session){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
	return nil
}

// Logout transitions to Anonymous and notifies listeners. Remote identity
// data is never touched.
func (p *TokenProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	listeners := append([]func(*Session){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
	return nil
}

func (p *TokenProvider) parseToken(raw string) (*Session, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	picture, _ := claims["picture"].(string)

	return &Session{
		UID:         uid,
		DisplayName: name,
		Email:       email,
		PhotoURL:    picture,
	}, nil
}
