package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Refresher mints a new access token from a refresh token. Implemented by
// the Blocks API client; optional, a State without a Refresher requires a
// full re-login on expiry.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	AccessToken       string
	RefreshToken      string
	TokenType         string
	ExpiresAt         time.Time
	Username          string
	TenantID          string
	TenantGroupID     string
	ApplicationDomain string
	ProjectName       string
}

// Authenticated reports whether the snapshot carries a non-empty access token.
// It says nothing about expiry.
func (s Snapshot) Authenticated() bool {
	return s.AccessToken != ""
}

// AuthContext carries everything a handler needs to authorize one outbound
// call.
type AuthContext struct {
	Token     string
	TokenType string
}

// AuthorizationValue returns the value for the Authorization header.
func (a AuthContext) AuthorizationValue() string {
	typ := a.TokenType
	if typ == "" {
		typ = "Bearer"
	}
	return typ + " " + a.Token
}

// State is the single mutable session record. The zero value is not usable;
// call New.
type State struct {
	mu        sync.RWMutex
	token     oauth2.Token
	username  string
	tenantID  string
	groupID   string
	appDomain string
	project   string

	refresher Refresher
	now       func() time.Time
}

// New creates an empty session state.
func New() *State {
	return &State{now: time.Now}
}

// SetRefresher wires an optional token refresher. Must be called during
// setup, before the state is shared.
func (s *State) SetRefresher(r Refresher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresher = r
}

// Get returns a snapshot of the current session.
func (s *State) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		AccessToken:       s.token.AccessToken,
		RefreshToken:      s.token.RefreshToken,
		TokenType:         s.token.TokenType,
		ExpiresAt:         s.token.Expiry,
		Username:          s.username,
		TenantID:          s.tenantID,
		TenantGroupID:     s.groupID,
		ApplicationDomain: s.appDomain,
		ProjectName:       s.project,
	}
}

// Apply merges an update into the session. Only fields set on the update are
// written; the whole merge happens inside one critical section.
func (s *State) Apply(u *Update) {
	if u == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.token != nil {
		s.token = *u.token
	}
	if u.username != nil {
		s.username = *u.username
	}
	if u.tenantID != nil {
		s.tenantID = *u.tenantID
	}
	if u.groupID != nil {
		s.groupID = *u.groupID
	}
	if u.appDomain != nil {
		s.appDomain = *u.appDomain
	}
	if u.project != nil {
		s.project = *u.project
	}
}

// Reset clears all session fields atomically. The refresher and clock are
// kept.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = oauth2.Token{}
	s.username = ""
	s.tenantID = ""
	s.groupID = ""
	s.appDomain = ""
	s.project = ""
}

// EnsureValid gates every authenticated call. It fails with
// ErrNotAuthenticated before any login and with ErrTokenExpired once the
// stored expiry (already margin-adjusted at login time) has passed. When a
// refresh token and a Refresher are available, expiry triggers exactly one
// refresh attempt; a failed refresh still surfaces ErrTokenExpired.
func (s *State) EnsureValid(ctx context.Context) (AuthContext, error) {
	s.mu.RLock()
	tok := s.token
	refresher := s.refresher
	now := s.now()
	s.mu.RUnlock()

	if tok.AccessToken == "" {
		return AuthContext{}, ErrNotAuthenticated
	}
	if tok.Expiry.IsZero() || now.Before(tok.Expiry) {
		return AuthContext{Token: tok.AccessToken, TokenType: tok.TokenType}, nil
	}

	if refresher == nil || tok.RefreshToken == "" {
		return AuthContext{}, ErrTokenExpired
	}

	// Single-shot refresh. Runs outside the lock; if a concurrent login
	// lands first, the freshest write wins.
	fresh, err := refresher.RefreshToken(ctx, tok.RefreshToken)
	if err != nil || fresh == nil || fresh.AccessToken == "" {
		return AuthContext{}, ErrTokenExpired
	}

	s.Apply(NewUpdate().Token(fresh))
	return AuthContext{Token: fresh.AccessToken, TokenType: fresh.TokenType}, nil
}

// ResolveTenant resolves the effective tenant for a tenant-scoped call.
// An explicit project key always wins; otherwise the stored tenant ID is
// used; with neither available the call must not proceed.
func (s *State) ResolveTenant(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tenantID == "" {
		return "", ErrTenantNotSet
	}
	return s.tenantID, nil
}
