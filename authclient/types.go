package authclient

import "github.com/jrsteele09/go-auth-frontend/sessions"

// Endpoint paths relative to the API origin.
const (
	PathLogin          = "/api/auth/login"
	PathForgotPassword = "/api/auth/forgot-password"
)

// CodeSuccess is the application-level success code carried in every envelope.
const CodeSuccess = 200

// Credentials are created per submit and discarded once the request completes.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Envelope wraps every API response.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

type LoginData struct {
	Token        string               `json:"token"`
	RefreshToken string               `json:"refreshToken"`
	User         sessions.UserProfile `json:"user"`
	ExpiresIn    int64                `json:"expiresIn"`
}

// complete reports whether a success payload can become a session.
// The refresh token may be empty.
func (d *LoginData) complete() bool {
	return d.Token != ""
}

type ForgotPasswordData struct {
	Email string `json:"email"`
}

// LoginResult is what a successful login hands back to the flow.
// ExpiresIn is informational; nothing enforces it on the client.
type LoginResult struct {
	Token        string
	RefreshToken string
	User         sessions.UserProfile
	ExpiresIn    int64
	Message      string
}

func (r LoginResult) Session() sessions.Session {
	return sessions.Session{
		Token:        r.Token,
		RefreshToken: r.RefreshToken,
		User:         r.User,
	}
}

type ResetResult struct {
	Email   string
	Message string
}
