package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/storage"
	"github.com/rs/zerolog/log"
)

const (
	// clientCookieName identifies the browser; its value is the storage scope
	clientCookieName = "authfront_client"
	clientCookieAge  = 365 * 24 * 3600
)

// clientScope returns the caller's storage scope, issuing a new client cookie
// when the request has none or carries one that is not a uuid.
func (s *Server) clientScope(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(clientCookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil && storage.ValidateScope(cookie.Value) == nil {
			return cookie.Value
		}
		log.Debug().Msg("Ignoring malformed client cookie")
	}

	scope := uuid.New().String()
	s.setClientCookie(w, scope, r)
	return scope
}

func (s *Server) setClientCookie(w http.ResponseWriter, scope string, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    scope,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   clientCookieAge,
	})
}

// followIntent redirects to the intent's target, or to fallback when the
// intent is not a redirect.
func followIntent(w http.ResponseWriter, r *http.Request, intent navigation.Intent, fallback string) {
	to := fallback
	if intent.IsRedirect() && intent.To != "" {
		to = intent.To
	}
	redirectSuccess(w, r, to)
}

// redirectSuccess sends the browser to path after a form post or guard decision
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
