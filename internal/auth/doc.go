// Package auth owns the OAuth token lifecycle for the setlist backend.
//
// Credential state lives entirely in client-held cookies; the server keeps no
// session storage. Each request's cookie set is decoded by [CookieCodec],
// validated by [Manager], and, when the access token is within the expiry
// skew, silently refreshed through an [Exchanger] with the new triple
// written back onto the outbound response.
//
// The lifecycle is a small state machine driven solely by the presence of the
// two tokens and the expiry comparison:
//
//	no access token            → unauthenticated (401, re-login)
//	valid access token         → use as-is, no cookie writes
//	expired + refresh token    → refresh once, persist, use new token
//	expired, no refresh token  → session expired (401, re-login)
//
// Refresh is a recovery action, not a retry: a failed refresh surfaces as a
// session-expired error and is never retried inside the core.
package auth
