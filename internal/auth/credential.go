package auth

import (
	"net/http"
	"strconv"
	"time"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
	expiresAtCookie    = "expires_at"
	stateCookie        = "oauth_state"

	stateTTL = 10 * time.Minute
)

// Credential is the token triple carried in client-held cookies. The server
// never stores it; each request's cookie set is the sole source of truth.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // epoch seconds; zero when absent or unparsable
	ExpiresIn    int   // seconds until expiry at issuance; drives cookie max-age
}

// CookieCodec encodes and decodes a [Credential] to and from cookies with
// security attributes chosen by environment.
//
// Production issues Secure cookies with SameSite=None so a frontend on a
// separate origin still receives them on credentialed cross-site requests.
// Development uses SameSite=Lax over plain HTTP.
type CookieCodec struct {
	Production bool
}

func (c CookieCodec) sameSite() http.SameSite {
	if c.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (c CookieCodec) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: c.sameSite(),
	}
}

// Read extracts the token triple from the request's cookies. A missing cookie
// leaves its field zero-valued, and a malformed expires_at reads as zero;
// neither is ever inferred.
func (c CookieCodec) Read(r *http.Request) Credential {
	var cred Credential

	if ck, err := r.Cookie(accessTokenCookie); err == nil {
		cred.AccessToken = ck.Value
	}
	if ck, err := r.Cookie(refreshTokenCookie); err == nil {
		cred.RefreshToken = ck.Value
	}
	if ck, err := r.Cookie(expiresAtCookie); err == nil {
		if v, err := strconv.ParseInt(ck.Value, 10, 64); err == nil {
			cred.ExpiresAt = v
		}
	}

	return cred
}

// Write sets the token cookies on the outbound response. It must be called on
// the exact ResponseWriter returned to the client before the response body is
// written.
//
// The access token cookie expires with the token itself; the refresh token and
// expiry cookies persist until overwritten or evicted by the browser. An
// absent refresh token leaves any previously issued refresh cookie untouched.
func (c CookieCodec) Write(w http.ResponseWriter, cred Credential) {
	http.SetCookie(w, c.cookie(accessTokenCookie, cred.AccessToken, cred.ExpiresIn))
	if cred.RefreshToken != "" {
		http.SetCookie(w, c.cookie(refreshTokenCookie, cred.RefreshToken, 0))
	}
	http.SetCookie(w, c.cookie(expiresAtCookie, strconv.FormatInt(cred.ExpiresAt, 10), 0))
}

// Clear removes all token cookies from the client.
func (c CookieCodec) Clear(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie, expiresAtCookie} {
		http.SetCookie(w, c.cookie(name, "", -1))
	}
}

// WriteState sets the short-lived CSRF state cookie covering the
// login/callback roundtrip.
func (c CookieCodec) WriteState(w http.ResponseWriter, state string) {
	http.SetCookie(w, c.cookie(stateCookie, state, int(stateTTL.Seconds())))
}

// ReadState returns the pending CSRF state, or an empty string if none is set.
func (c CookieCodec) ReadState(r *http.Request) string {
	if ck, err := r.Cookie(stateCookie); err == nil {
		return ck.Value
	}
	return ""
}

// ClearState removes the CSRF state cookie once the callback is processed.
func (c CookieCodec) ClearState(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(stateCookie, "", -1))
}
