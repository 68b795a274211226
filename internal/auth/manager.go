package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/shared"
)

// ExpirySkew is the safety margin subtracted from a token's expiry before the
// comparison against the current time, so a token stays valid for the
// duration of the provider call it backs.
const ExpirySkew = 60 * time.Second

// Manager owns the token lifecycle: it validates a credential's freshness on
// every request, triggers a refresh when the credential is stale, and writes
// the refreshed credential back through the [CookieCodec].
//
// The manager holds no state between requests; the client's cookies are
// re-read on each call.
type Manager struct {
	codec     CookieCodec
	exchanger Exchanger
	logger    *log.Logger
	now       func() time.Time
}

// NewManager creates a Manager with the given codec and exchanger.
func NewManager(codec CookieCodec, exchanger Exchanger, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		codec:     codec,
		exchanger: exchanger,
		logger:    logger,
		now:       time.Now,
	}
}

// expired reports whether the credential's access token must be considered
// unusable. A missing or unparsable expiry counts as expired, failing toward
// refresh rather than toward using a possibly stale token.
func (m *Manager) expired(cred Credential) bool {
	if cred.ExpiresAt == 0 {
		return true
	}
	return m.now().Unix() > cred.ExpiresAt-int64(ExpirySkew.Seconds())
}

// AccessToken returns a currently valid access token for the request,
// refreshing and re-persisting the credential when needed.
//
// Fails with [shared.ErrUnauthenticated] when no access token is presented,
// and with [shared.ErrSessionExpired] when the credential is stale and cannot
// be refreshed; both require a fresh authorization-code flow to recover.
// On the fast path (token still valid) the response is not mutated.
func (m *Manager) AccessToken(w http.ResponseWriter, r *http.Request) (string, error) {
	cred := m.codec.Read(r)

	if cred.AccessToken == "" {
		return "", fmt.Errorf("%w: log in to continue", shared.ErrUnauthenticated)
	}

	if !m.expired(cred) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", fmt.Errorf("%w: log in again", shared.ErrSessionExpired)
	}

	refreshed, err := m.exchanger.Refresh(r.Context(), cred.RefreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		return "", fmt.Errorf("%w: %v", shared.ErrSessionExpired, err)
	}

	m.codec.Write(w, refreshed)
	m.logger.Debug("access token refreshed", "expires_at", refreshed.ExpiresAt)

	return refreshed.AccessToken, nil
}

// AuthURL returns the provider's authorization page URL for the given state.
func (m *Manager) AuthURL(state string) string {
	return m.exchanger.AuthURL(state)
}

// Establish exchanges an authorization code for a fresh credential and
// persists it onto the response, creating the session.
func (m *Manager) Establish(ctx context.Context, w http.ResponseWriter, code string) error {
	cred, err := m.exchanger.Exchange(ctx, code)
	if err != nil {
		return err
	}

	m.codec.Write(w, cred)
	m.logger.Info("session established", "expires_at", cred.ExpiresAt)

	return nil
}

// Revoke clears the client's token cookies, destroying the session.
func (m *Manager) Revoke(w http.ResponseWriter) {
	m.codec.Clear(w)
}

// Codec exposes the cookie codec for handlers that manage the CSRF state
// cookie around the login flow.
func (m *Manager) Codec() CookieCodec {
	return m.codec
}
