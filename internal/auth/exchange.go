package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes required for playlist assembly under the user's account.
var Scopes = []string{"playlist-modify-public", "playlist-modify-private"}

// Exchanger wraps the provider's authorization-code and refresh-token grants.
//
// Implementations are stateless and constructor-injected; the [Manager] and
// HTTP handlers receive one explicitly instead of sharing process-wide
// configuration.
type Exchanger interface {
	// AuthURL returns the provider's authorization page URL for the given
	// CSRF state token.
	AuthURL(state string) string

	// Exchange trades a one-time authorization code for a Credential.
	// Fails with [shared.ErrExchange] on an invalid or expired code, or when
	// the provider is unreachable.
	Exchange(ctx context.Context, code string) (Credential, error)

	// Refresh mints a new access token from a refresh token. Fails with
	// [shared.ErrRefresh] on a revoked or invalid refresh token, or when the
	// provider is unreachable. When the provider rotates the refresh token,
	// the rotated value is returned; otherwise the prior one is kept.
	Refresh(ctx context.Context, refreshToken string) (Credential, error)
}

// SpotifyExchanger implements [Exchanger] against Spotify's accounts service
// using [oauth2].
type SpotifyExchanger struct {
	config *oauth2.Config
	now    func() time.Time
}

// NewSpotifyExchanger creates an exchanger from the Spotify OAuth application
// credentials.
func NewSpotifyExchanger(cfg shared.SpotifyConfig) (*SpotifyExchanger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyExchanger{config: config, now: time.Now}, nil
}

// AuthURL returns the Spotify authorization page URL for user login.
func (e *SpotifyExchanger) AuthURL(state string) string {
	return e.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the initial token triple.
func (e *SpotifyExchanger) Exchange(ctx context.Context, code string) (Credential, error) {
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrExchange, err)
	}
	return e.credential(token, ""), nil
}

// Refresh mints a new access token using the refresh-token grant.
func (e *SpotifyExchanger) Refresh(ctx context.Context, refreshToken string) (Credential, error) {
	if refreshToken == "" {
		return Credential{}, fmt.Errorf("%w: no refresh token", shared.ErrRefresh)
	}

	source := e.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrRefresh, err)
	}

	return e.credential(token, refreshToken), nil
}

// credential converts an [oauth2.Token] into a Credential, deriving the
// absolute expiry at issuance and falling back to the prior refresh token when
// the provider did not rotate it.
func (e *SpotifyExchanger) credential(token *oauth2.Token, prior string) Credential {
	cred := Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}

	if cred.RefreshToken == "" {
		cred.RefreshToken = prior
	}

	if !token.Expiry.IsZero() {
		cred.ExpiresAt = token.Expiry.Unix()
		cred.ExpiresIn = int(token.Expiry.Sub(e.now()).Seconds())
	}

	return cred
}
