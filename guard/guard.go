// Package guard gates the landing page on the presence of a stored session.
package guard

import (
	"context"
	"strconv"
	"unicode/utf8"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/rs/zerolog/log"
)

const (
	defaultName    = "User"
	defaultInitial = "U"
)

// Landing holds the display fields for the landing page.
type Landing struct {
	ID      string
	Name    string
	Email   string
	Avatar  string
	Initial string // shown when there is no avatar
}

// Decision is the result of activating the landing page. When Allowed is false
// Intent redirects to the login page.
type Decision struct {
	Allowed bool
	Landing Landing
	Intent  navigation.Intent
}

type Guard struct {
	store   sessions.Store
	metrics *metrics.Recorder
}

func New(store sessions.Store, r *metrics.Recorder) *Guard {
	return &Guard{store: store, metrics: r}
}

// Activate checks for a session. Missing, partial, malformed or unreadable
// sessions all send the user to the login page; there is no retry.
func (g *Guard) Activate(ctx context.Context) Decision {
	session, err := g.store.Load(ctx)
	if err != nil {
		if !autherrors.Is(err, autherrors.ErrNoSession) || autherrors.Is(err, autherrors.ErrMalformedEntry) {
			log.Err(err).Msg("Route guard could not read the session, treating as logged out")
		}
		g.metrics.GuardDecision("redirect")
		return Decision{Intent: navigation.Redirect(navigation.RouteLogin)}
	}

	g.metrics.GuardDecision("allowed")
	return Decision{
		Allowed: true,
		Landing: LandingFor(session.User),
		Intent:  navigation.None(),
	}
}

// Logout clears the session and sends the user to the login page. The redirect
// is returned even when clearing fails so the user is never stranded.
func (g *Guard) Logout(ctx context.Context) (navigation.Intent, error) {
	intent := navigation.Redirect(navigation.RouteLogin)
	if err := g.store.Clear(ctx); err != nil {
		log.Err(err).Msg("Logout: failed to clear session")
		return intent, err
	}
	log.Info().Msg("Logged out")
	return intent, nil
}

// LandingFor derives display fields from a profile snapshot.
func LandingFor(u sessions.UserProfile) Landing {
	l := Landing{
		Name:    u.Name,
		Email:   u.Email,
		Avatar:  u.Avatar,
		ID:      "-",
		Initial: defaultInitial,
	}
	if l.Name == "" {
		l.Name = defaultName
	} else {
		r, _ := utf8.DecodeRuneInString(u.Name)
		l.Initial = string(r)
	}
	if u.ID != 0 {
		l.ID = strconv.FormatInt(u.ID, 10)
	}
	return l
}
