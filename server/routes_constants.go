package server

import "github.com/jrsteele09/go-auth-frontend/navigation"

// Route path constants
// The screen paths are owned by navigation so flows and the guard agree with the router
const (
	RouteLanding        = navigation.RouteLanding
	RouteHome           = navigation.RouteHome
	RouteLogin          = navigation.RouteLogin
	RouteForgotPassword = navigation.RouteForgotPassword
	RouteLogout         = navigation.RouteLogout

	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS    = "/css/{file}"
	RouteStaticImages = "/images/{file}"
)
