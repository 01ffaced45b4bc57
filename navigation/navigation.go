// Package navigation describes where the hosting shell should go next.
// Flows and the route guard return an Intent instead of navigating themselves.
package navigation

import "time"

// Route paths shared by the flows, the guard and the shells.
const (
	RouteLanding        = "/"
	RouteHome           = "/home" // alias for RouteLanding
	RouteLogin          = "/login"
	RouteForgotPassword = "/forgot-password"
	RouteLogout         = "/logout"
)

type Kind string

const (
	KindNone     Kind = "none"
	KindRedirect Kind = "redirect"
)

// Intent is consumed by the shell. Delay is how long to keep the current view before redirecting.
type Intent struct {
	Kind  Kind
	To    string
	Delay time.Duration
}

func None() Intent {
	return Intent{Kind: KindNone}
}

func Redirect(to string) Intent {
	return Intent{Kind: KindRedirect, To: to}
}

func RedirectAfter(to string, delay time.Duration) Intent {
	return Intent{Kind: KindRedirect, To: to, Delay: delay}
}

func (i Intent) IsRedirect() bool {
	return i.Kind == KindRedirect
}
