package shared

import "fmt"

var (
	// Authentication errors
	ErrUnauthenticated = fmt.Errorf("no credential presented")
	ErrSessionExpired  = fmt.Errorf("session expired")
	ErrExchange        = fmt.Errorf("authorization code exchange failed")
	ErrRefresh         = fmt.Errorf("token refresh failed")

	// Provider errors
	ErrUpstream            = fmt.Errorf("provider request failed")
	ErrUpstreamUnavailable = fmt.Errorf("provider unavailable")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
