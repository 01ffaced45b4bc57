package server

import (
	"errors"
	"math"
	"net/http"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/flows"
	"github.com/rs/zerolog/log"
)

const msgSubmissionInProgress = "A request is already in progress, please wait"

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName    string
	Email      string // Preserve email on error
	Error      string
	ErrorField string // "email" or "password" when validation failed
}

// LoginSuccessData drives the interstitial shown before the redirect to the landing page
type LoginSuccessData struct {
	AppName      string
	Message      string
	RedirectTo   string
	DelaySeconds int
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		scope := s.clientScope(w, r)
		s.clients.leave(scope, screenLogin)

		renderTemplate(w, loginTmpl, http.StatusOK, LoginPageData{AppName: s.config.GetAppName()})
	}
}

// LoginSubmissionHandler processes the login form submission (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")
	successTmpl := mustParseTemplate("login_success.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")

		scope := s.clientScope(w, r)
		st, release, err := s.clients.acquire(scope, func() (*clientState, error) { return s.newClientState(scope) })
		if err != nil {
			log.Err(err).Msg("Login: failed to open client state")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer release()

		page := LoginPageData{AppName: s.config.GetAppName(), Email: email}

		out, err := st.login.Submit(r.Context(), email, password)
		switch {
		case errors.Is(err, autherrors.ErrSubmissionInProgress):
			page.Error = msgSubmissionInProgress
			renderTemplate(w, loginTmpl, http.StatusConflict, page)
			return
		case errors.Is(err, autherrors.ErrStaleResponse):
			// the browser has moved on; whatever it asked for next wins
			redirectSuccess(w, r, RouteLogin)
			return
		case err != nil:
			log.Err(err).Msg("Login: unexpected error")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		if out.State == flows.Success {
			renderTemplate(w, successTmpl, http.StatusOK, LoginSuccessData{
				AppName:      s.config.GetAppName(),
				Message:      out.Message,
				RedirectTo:   out.Intent.To,
				DelaySeconds: int(math.Ceil(out.Intent.Delay.Seconds())),
			})
			return
		}

		page.Error = out.Message
		status := http.StatusOK
		if out.FieldError != nil {
			page.ErrorField = out.FieldError.Field
			status = http.StatusUnprocessableEntity
		}
		renderTemplate(w, loginTmpl, status, page)
	}
}
