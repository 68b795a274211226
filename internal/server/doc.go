// Package server provides HTTP routing, middleware, and the API handlers for
// the setlist backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. [BasicRouter] uses [http.ServeMux] with
// method-qualified patterns.
//
// # Handlers
//
// Handlers implement the [Handler] interface, which wraps the stdlib handler
// interface and adds Routes, so each handler encapsulates its own route
// definitions:
//
//   - [AuthHandler]: /auth/login, /auth/callback, /auth/logout, /me
//   - [PlaylistHandler]: /playlist/search, /playlist/search/multiple, /playlist/
//
// Every authenticated endpoint obtains its access token from the auth
// package's lifecycle manager, which transparently refreshes stale
// credentials and rewrites the token cookies on the same response.
//
// # Errors
//
// Failures surface as JSON bodies with a "detail" message. The status comes
// from the application error taxonomy: 401 for missing or unrecoverable
// credentials, 400 for validation failures, the provider's own status for
// client-facing upstream errors, and 502/503 for other provider failures.
package server
