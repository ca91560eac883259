package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	token *oauth2.Token
	err   error
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.token, f.err
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestApplyPartialMerge(t *testing.T) {
	s := New()

	s.Apply(NewUpdate().Token(&oauth2.Token{
		AccessToken: "tok-1",
		TokenType:   "bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))
	s.Apply(NewUpdate().TenantID("proj-1").ProjectName("demo"))

	snap := s.Get()
	assert.Equal(t, "tok-1", snap.AccessToken, "token must survive unrelated update")
	assert.Equal(t, "proj-1", snap.TenantID)
	assert.Equal(t, "demo", snap.ProjectName)
	assert.Empty(t, snap.ApplicationDomain, "unset fields stay unset")
}

func TestApplyEmptyUpdateIsNoop(t *testing.T) {
	s := New()
	s.Apply(NewUpdate().TenantID("proj-1").ApplicationDomain("https://demo.seliseblocks.com"))

	s.Apply(NewUpdate())
	s.Apply(nil)

	snap := s.Get()
	assert.Equal(t, "proj-1", snap.TenantID)
	assert.Equal(t, "https://demo.seliseblocks.com", snap.ApplicationDomain)
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	s.Apply(NewUpdate().
		Token(&oauth2.Token{AccessToken: "tok", RefreshToken: "ref", Expiry: time.Now().Add(time.Hour)}).
		Username("dev@example.com").
		TenantID("proj-1").
		TenantGroupID("group-1").
		ApplicationDomain("https://demo.seliseblocks.com").
		ProjectName("demo"))

	s.Reset()

	assert.Equal(t, Snapshot{}, s.Get())

	_, err := s.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestResolveTenantPrecedence(t *testing.T) {
	s := New()

	_, err := s.ResolveTenant("")
	assert.ErrorIs(t, err, ErrTenantNotSet)

	tenant, err := s.ResolveTenant("explicit-key")
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", tenant)

	s.Apply(NewUpdate().TenantID("stored-key"))

	tenant, err = s.ResolveTenant("")
	require.NoError(t, err)
	assert.Equal(t, "stored-key", tenant)

	tenant, err = s.ResolveTenant("explicit-key")
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", tenant, "explicit argument wins over stored tenant")
}

func TestEnsureValidNotAuthenticated(t *testing.T) {
	s := New()
	_, err := s.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestEnsureValidWithFutureExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = fixedClock(now)
	s.Apply(NewUpdate().Token(&oauth2.Token{
		AccessToken: "tok",
		TokenType:   "bearer",
		Expiry:      now.Add(time.Hour),
	}))

	auth, err := s.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.Token)
	assert.Equal(t, "bearer tok", auth.AuthorizationValue())
}

func TestEnsureValidExpiredWithoutRefresher(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = fixedClock(now)
	s.Apply(NewUpdate().Token(&oauth2.Token{
		AccessToken:  "tok",
		RefreshToken: "ref",
		Expiry:       now.Add(-time.Minute),
	}))

	_, err := s.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestEnsureValidExpiredRefreshSucceeds(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	refresher := &fakeRefresher{token: &oauth2.Token{
		AccessToken:  "tok-2",
		RefreshToken: "ref-2",
		TokenType:    "bearer",
		Expiry:       now.Add(2 * time.Hour),
	}}

	s := New()
	s.now = fixedClock(now)
	s.SetRefresher(refresher)
	s.Apply(NewUpdate().Token(&oauth2.Token{
		AccessToken:  "tok-1",
		RefreshToken: "ref-1",
		Expiry:       now.Add(-time.Minute),
	}))

	auth, err := s.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", auth.Token)
	assert.Equal(t, 1, refresher.callCount())

	// The refreshed token is persisted as one atomic write.
	snap := s.Get()
	assert.Equal(t, "tok-2", snap.AccessToken)
	assert.Equal(t, "ref-2", snap.RefreshToken)
	assert.Equal(t, now.Add(2*time.Hour), snap.ExpiresAt)
}

func TestEnsureValidExpiredRefreshFails(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	refresher := &fakeRefresher{err: errors.New("upstream rejected the refresh token")}

	s := New()
	s.now = fixedClock(now)
	s.SetRefresher(refresher)
	s.Apply(NewUpdate().Token(&oauth2.Token{
		AccessToken:  "tok-1",
		RefreshToken: "ref-1",
		Expiry:       now.Add(-time.Minute),
	}))

	_, err := s.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, 1, refresher.callCount(), "refresh is attempted exactly once per call")
}

func TestEnsureValidZeroExpiryTreatedAsValid(t *testing.T) {
	// Some grants omit expires_in entirely; a token without expiry is usable
	// until the server rejects it.
	s := New()
	s.Apply(NewUpdate().Token(&oauth2.Token{AccessToken: "tok"}))

	auth, err := s.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.Token)
}

func TestConcurrentUpdatesNoTornWrites(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag := fmt.Sprintf("%d", i)
			s.Apply(NewUpdate().Token(&oauth2.Token{
				AccessToken:  "tok-" + tag,
				RefreshToken: "ref-" + tag,
				Expiry:       time.Unix(int64(1000000+i), 0),
			}))
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Apply(NewUpdate().TenantID(fmt.Sprintf("proj-%d", i)))
		}(i)
	}
	wg.Wait()

	// Whatever token won, its fields must belong to the same write.
	snap := s.Get()
	require.NotEmpty(t, snap.AccessToken)
	tag := snap.AccessToken[len("tok-"):]
	assert.Equal(t, "ref-"+tag, snap.RefreshToken)
	assert.NotEmpty(t, snap.TenantID)
}

func TestSnapshotIsImmutableCopy(t *testing.T) {
	s := New()
	s.Apply(NewUpdate().TenantID("proj-1"))

	snap := s.Get()
	snap.TenantID = "mutated"

	assert.Equal(t, "proj-1", s.Get().TenantID)
}
