// Package mockapi is a stand-in for the authentication backend. It speaks the
// same envelope contract as the real service so the frontend can be run and
// tested without one.
package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-auth-frontend/authclient"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/rs/zerolog/log"
)

const (
	MsgLoginMissingFields = "Please enter email and password"
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoginSuccess       = "Login successful"
	MsgEmailMissing       = "Please enter email"
	MsgResetSent          = "Password reset email sent"
)

// DefaultProfile is returned for every login when no directory is configured.
var DefaultProfile = sessions.UserProfile{
	ID:     1,
	Name:   "Zhang San",
	Avatar: "https://example.com/avatar.jpg",
}

type Options struct {
	Latency    time.Duration
	SigningKey string
	// Users, when set, makes login check passwords. Nil accepts anything.
	Users *Directory
	Cors  config.CorsConfig
	Now   func() time.Time
}

type Server struct {
	opts   Options
	tokens tokenMinter
	router *mux.Router
}

func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cors == nil {
		opts.Cors = config.Cors{}
	}
	s := &Server{
		opts:   opts,
		tokens: tokenMinter{key: []byte(opts.SigningKey), now: opts.Now},
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	cors := corsPolicy{
		origins: s.opts.Cors.GetAllowedOrigins(),
		methods: s.opts.Cors.GetAllowedMethods(),
		headers: s.opts.Cors.GetAllowedHeaders(),
	}
	s.router.Use(loggingMiddleware, cors.middleware, s.latencyMiddleware)

	api := s.router.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/forgot-password", s.handleForgotPassword).Methods(http.MethodPost, http.MethodOptions)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds authclient.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Debug().Err(err).Msg("mock login: unreadable body")
	}
	if creds.Email == "" || creds.Password == "" {
		writeFailure(w, http.StatusBadRequest, MsgLoginMissingFields)
		return
	}

	profile := DefaultProfile
	profile.Email = creds.Email
	if s.opts.Users != nil {
		u, ok := s.opts.Users.Authenticate(creds.Email, creds.Password)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, MsgInvalidCredentials)
			return
		}
		profile = u.Profile()
	}

	token, err := s.tokens.accessToken(profile)
	if err != nil {
		log.Err(err).Msg("mock login: token")
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authclient.Envelope[authclient.LoginData]{
		Code:    authclient.CodeSuccess,
		Message: MsgLoginSuccess,
		Data: &authclient.LoginData{
			Token:        token,
			RefreshToken: refreshToken(),
			User:         profile,
			ExpiresIn:    int64(TokenExpiry / time.Second),
		},
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authclient.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug().Err(err).Msg("mock forgot-password: unreadable body")
	}
	if req.Email == "" {
		writeFailure(w, http.StatusBadRequest, MsgEmailMissing)
		return
	}
	writeJSON(w, http.StatusOK, authclient.Envelope[authclient.ForgotPasswordData]{
		Code:    authclient.CodeSuccess,
		Message: MsgResetSent,
		Data:    &authclient.ForgotPasswordData{Email: req.Email},
	})
}

// latencyMiddleware delays every non-preflight request. A client that gives up
// first gets nothing written.
func (s *Server) latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Latency > 0 && r.Method != http.MethodOptions {
			t := time.NewTimer(s.opts.Latency)
			defer t.Stop()
			select {
			case <-t.C:
			case <-r.Context().Done():
				log.Debug().Str("path", r.URL.Path).Msg("mock api: client went away during latency")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Dur("elapsed", time.Since(start)).
			Msg("mock api")
	})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, authclient.Envelope[struct{}]{Code: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("mock api: write response")
	}
}
