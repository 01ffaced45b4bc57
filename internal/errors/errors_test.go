package errors_test

import (
	"testing"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, autherrors.Wrapf(nil, "load %s", "token"))

	err := autherrors.Wrapf(autherrors.ErrNoSession, "load %s", "token")
	require.EqualError(t, err, "load token: no session")
	require.True(t, autherrors.Is(err, autherrors.ErrNoSession))
	require.False(t, autherrors.Is(err, autherrors.ErrMalformedEntry))
}
