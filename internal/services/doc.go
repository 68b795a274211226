// Package services wraps outbound calls to the Spotify Web API.
//
// [SpotifyAPI] is the authenticated facade: every method takes a context and
// the access token produced by the token lifecycle manager, so the facade
// itself never owns or caches credentials.
//
// Provider failures are translated into the application's error taxonomy in
// one place, doRequest:
//
//   - provider 401            → [shared.ErrUnauthenticated] (token revoked out-of-band)
//   - other non-2xx status    → [*UpstreamError] carrying status and message
//   - network or timeout      → [shared.ErrUpstreamUnavailable]
//
// A provider 401 does not trigger an implicit refresh here; the expiry check
// in the auth package is the sole refresh trigger.
package services
