// Package server hosts the login, forgot-password and landing screens over
// HTTP. Each browser gets its own storage scope, keyed by a client cookie.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-auth-frontend/flows"
	"github.com/jrsteele09/go-auth-frontend/guard"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/jrsteele09/go-auth-frontend/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// AuthAPI is the backend as seen by both screens.
type AuthAPI interface {
	flows.Authenticator
	flows.PasswordResetter
}

// APIFactory builds an API client whose bearer token comes from store.
type APIFactory func(store sessions.Store) AuthAPI

type Deps struct {
	Storage  storage.Provider
	NewAPI   APIFactory
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer // served on /metrics; defaults to the global registry
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	storage  storage.Provider
	newAPI   APIFactory
	metrics  *metrics.Recorder
	gatherer prometheus.Gatherer
	clients  *clientRegistry
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Storage == nil {
		return nil, fmt.Errorf("[Server New] a storage provider is required")
	}
	if deps.NewAPI == nil {
		return nil, fmt.Errorf("[Server New] an API factory is required")
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		storage:  deps.Storage,
		newAPI:   deps.NewAPI,
		metrics:  deps.Metrics,
		gatherer: deps.Gatherer,
		clients:  newClientRegistry(),
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// sessionStore opens the Session Store for one client scope.
func (s *Server) sessionStore(scope string) (*sessions.AreaStore, error) {
	area, err := s.storage.Area(scope)
	if err != nil {
		return nil, fmt.Errorf("[Server sessionStore] %w", err)
	}
	return sessions.NewAreaStore(area), nil
}

func (s *Server) guardFor(scope string) (*guard.Guard, error) {
	store, err := s.sessionStore(scope)
	if err != nil {
		return nil, err
	}
	return guard.New(store, s.metrics), nil
}

// newClientState wires both flows for a scope against one API client.
func (s *Server) newClientState(scope string) (*clientState, error) {
	store, err := s.sessionStore(scope)
	if err != nil {
		return nil, err
	}
	api := s.newAPI(store)
	return &clientState{
		login: flows.NewLoginFlow(api, store,
			flows.WithRedirectDelay(s.config.GetRedirectDelay()),
			flows.WithLoginMetrics(s.metrics)),
		forgot: flows.NewForgotPasswordFlow(api, s.metrics),
	}, nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-19s] %s\n", colouredMethod(method), path)
}

func logError(method, path, error string) {
	log.Printf("[%-19s] %s %s\n", colouredMethod(method), path, Red+error+ResetColor)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
