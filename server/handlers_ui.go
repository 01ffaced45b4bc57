package server

import (
	"errors"
	"net/http"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/flows"
	"github.com/rs/zerolog/log"
)

// ForgotPasswordPageData backs both the request form and the confirmation view
type ForgotPasswordPageData struct {
	AppName   string
	Email     string
	Error     string
	Confirmed bool
	Message   string
	LoginURL  string
}

// ForgotPasswordGetHandler renders the forgot-password page
func (s *Server) ForgotPasswordGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("forgot_password.html")

	return func(w http.ResponseWriter, r *http.Request) {
		scope := s.clientScope(w, r)
		s.clients.leave(scope, screenForgotPassword)

		renderTemplate(w, tmpl, http.StatusOK, ForgotPasswordPageData{
			AppName:  s.config.GetAppName(),
			LoginURL: RouteLogin,
		})
	}
}

// ForgotPasswordPostHandler requests a reset email and shows the confirmation view
func (s *Server) ForgotPasswordPostHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("forgot_password.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")

		scope := s.clientScope(w, r)
		st, release, err := s.clients.acquire(scope, func() (*clientState, error) { return s.newClientState(scope) })
		if err != nil {
			log.Err(err).Msg("Forgot password: failed to open client state")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer release()

		page := ForgotPasswordPageData{
			AppName:  s.config.GetAppName(),
			Email:    email,
			LoginURL: RouteLogin,
		}

		out, err := st.forgot.Submit(r.Context(), email)
		switch {
		case errors.Is(err, autherrors.ErrSubmissionInProgress):
			page.Error = msgSubmissionInProgress
			renderTemplate(w, tmpl, http.StatusConflict, page)
			return
		case errors.Is(err, autherrors.ErrStaleResponse):
			redirectSuccess(w, r, RouteForgotPassword)
			return
		case err != nil:
			log.Err(err).Msg("Forgot password: unexpected error")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		if out.State == flows.Success {
			page.Confirmed = true
			page.Email = out.Email
			page.Message = out.Message
			// the confirmation is rendered once; "back to login" is a plain link
			page.LoginURL = st.forgot.Reset().To
			renderTemplate(w, tmpl, http.StatusOK, page)
			return
		}

		page.Error = out.Message
		status := http.StatusOK
		if out.FieldError != nil {
			status = http.StatusUnprocessableEntity
		}
		renderTemplate(w, tmpl, status, page)
	}
}
