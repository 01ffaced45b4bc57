package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-frontend/guard"
	"github.com/rs/zerolog/log"
)

type HomePageData struct {
	AppName string
	User    guard.Landing
}

// IndexHandler renders the landing page. It sits behind RequireSession.
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("home.html")

	return func(w http.ResponseWriter, r *http.Request) {
		landing, ok := landingFromContext(r.Context())
		if !ok {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		renderTemplate(w, tmpl, http.StatusOK, HomePageData{AppName: s.config.GetAppName(), User: landing})
	}
}

// LogoutHandler clears the client's session (POST /logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := s.clientScope(w, r)

		g, err := s.guardFor(scope)
		if err != nil {
			log.Err(err).Msg("Logout: failed to open session store")
			redirectSuccess(w, r, RouteLogin)
			return
		}

		intent, err := g.Logout(r.Context())
		if err != nil {
			log.Err(err).Msg("Logout: session may not have been cleared")
		}
		followIntent(w, r, intent, RouteLogin)
	}
}
