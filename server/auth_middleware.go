package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-auth-frontend/guard"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyLanding stores the signed-in user's display fields
	ContextKeyLanding ContextKey = "landing"
)

// RequireSession is middleware for the landing routes. Clients without a
// stored session are redirected to the login page.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			scope := s.clientScope(w, r)
			s.clients.leave(scope, screenLanding)

			g, err := s.guardFor(scope)
			if err != nil {
				log.Err(err).Msg("Landing: failed to open session store")
				redirectSuccess(w, r, RouteLogin)
				return
			}

			decision := g.Activate(r.Context())
			if !decision.Allowed {
				followIntent(w, r, decision.Intent, RouteLogin)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyLanding, decision.Landing)
			next(w, r.WithContext(ctx))
		}
	}
}

func landingFromContext(ctx context.Context) (guard.Landing, bool) {
	l, ok := ctx.Value(ContextKeyLanding).(guard.Landing)
	return l, ok
}
