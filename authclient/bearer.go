package authclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// tokenReadTimeout bounds the storage read done for each outgoing request.
const tokenReadTimeout = 2 * time.Second

// SessionTokenSource exposes the stored access token as an oauth2.TokenSource.
// It reports autherrors.ErrNoSession when nobody is signed in.
type SessionTokenSource struct {
	Store sessions.Store
}

var _ oauth2.TokenSource = SessionTokenSource{}

func (s SessionTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenReadTimeout)
	defer cancel()

	token, err := s.Store.Token(ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// BearerTransport attaches "Authorization: Bearer <token>" to every request
// when Source has a token, and sends the request untouched otherwise.
type BearerTransport struct {
	Source oauth2.TokenSource
	Base   http.RoundTripper
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return t.base().RoundTrip(req)
	}

	token, err := t.Source.Token()
	switch {
	case err == nil && token.AccessToken != "":
		authed := req.Clone(req.Context())
		token.SetAuthHeader(authed)
		return t.base().RoundTrip(authed)
	case err != nil && !errors.Is(err, autherrors.ErrNoSession):
		log.Warn().Err(err).Str("url", req.URL.String()).Msg("Bearer token unavailable, sending request without it")
	}
	return t.base().RoundTrip(req)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
