package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar    = "API_BASE_URL"
	apiTimeoutVar    = "API_TIMEOUT"
	redirectDelayVar = "REDIRECT_DELAY"

	// DefaultAPITimeout bounds every call to the authentication API.
	DefaultAPITimeout = 10 * time.Second
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the origin hosting the /api/auth endpoints, without a trailing slash
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLVar, "http://localhost:8081"), "/")
}

func (API) GetAPITimeout() time.Duration {
	return GetEnvDuration(apiTimeoutVar, DefaultAPITimeout)
}

// GetRedirectDelay is how long the login success notice stays up before moving to the landing page
func (API) GetRedirectDelay() time.Duration {
	return GetEnvDuration(redirectDelayVar, time.Second)
}
