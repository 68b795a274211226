package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/auth"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// UserAPI is the slice of the provider facade the auth handler needs.
type UserAPI interface {
	CurrentUser(ctx context.Context, token string) (*models.UserProfile, error)
}

// AuthHandler serves the OAuth login flow and the current-user endpoint.
//
// Authentication failures on the callback redirect the browser back to the
// frontend's login page with an error indicator rather than returning JSON.
type AuthHandler struct {
	manager     *auth.Manager
	api         UserAPI
	frontendURL string
	logger      *log.Logger
}

// NewAuthHandler creates an AuthHandler redirecting to the given frontend URL.
func NewAuthHandler(manager *auth.Manager, api UserAPI, frontendURL string, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{
		manager:     manager,
		api:         api,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /auth/login",
		"GET /auth/callback",
		"GET /auth/logout",
		"GET /me",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		h.login(w, r)
	case "/auth/callback":
		h.callback(w, r)
	case "/auth/logout":
		h.logout(w, r)
	case "/me":
		h.me(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login returns the provider's authorization page URL and plants the CSRF
// state cookie covering the roundtrip.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()
	h.manager.Codec().WriteState(w, state)

	respondJSON(w, http.StatusOK, map[string]string{
		"auth_url": h.manager.AuthURL(state),
	})
}

// callback validates the state parameter, exchanges the authorization code
// for tokens, persists them as cookies, and sends the browser back to the
// frontend.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam)
		h.redirectLoginError(w, r, errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.redirectLoginError(w, r, "missing_code")
		return
	}

	want := h.manager.Codec().ReadState(r)
	if want == "" || query.Get("state") != want {
		h.logger.Warn("state parameter mismatch")
		h.redirectLoginError(w, r, "invalid_state")
		return
	}
	h.manager.Codec().ClearState(w)

	if err := h.manager.Establish(r.Context(), w, code); err != nil {
		h.logger.Error("code exchange failed", "error", err)
		h.redirectLoginError(w, r, "exchange_failed")
		return
	}

	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

func (h *AuthHandler) redirectLoginError(w http.ResponseWriter, r *http.Request, reason string) {
	target := h.frontendURL + "/login?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, target, http.StatusFound)
}

// logout clears the token cookies.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.manager.Revoke(w)
	respondJSON(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

// me returns the authenticated user's profile, refreshing the credential
// through the lifecycle manager when needed.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	token, err := h.manager.AccessToken(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	profile, err := h.api.CurrentUser(r.Context(), token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
