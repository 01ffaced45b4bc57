package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-auth-frontend/guard"
	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/jrsteele09/go-auth-frontend/storage/memory"
	"github.com/stretchr/testify/require"
)

var testSession = sessions.Session{
	Token:        "tok",
	RefreshToken: "ref",
	User:         sessions.UserProfile{ID: 42, Name: "Zhang San", Email: "zs@example.com", Avatar: "https://example.com/a.jpg"},
}

func TestActivate_NoSessionRedirects(t *testing.T) {
	g := guard.New(sessions.NewAreaStore(memory.NewArea()), nil)

	d := g.Activate(context.Background())
	require.False(t, d.Allowed)
	require.Equal(t, navigation.Redirect(navigation.RouteLogin), d.Intent)
}

func TestActivate_SessionRendersProfile(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewAreaStore(memory.NewArea())
	require.NoError(t, store.Save(ctx, testSession))

	d := guard.New(store, nil).Activate(ctx)
	require.True(t, d.Allowed)
	require.False(t, d.Intent.IsRedirect())
	require.Equal(t, guard.Landing{
		ID:      "42",
		Name:    "Zhang San",
		Email:   "zs@example.com",
		Avatar:  "https://example.com/a.jpg",
		Initial: "Z",
	}, d.Landing)
}

func TestActivate_PartialSessionRedirects(t *testing.T) {
	ctx := context.Background()
	area := memory.NewArea()
	require.NoError(t, area.Set(ctx, map[string]string{sessions.KeyToken: "tok"}))

	d := guard.New(sessions.NewAreaStore(area), nil).Activate(ctx)
	require.False(t, d.Allowed)
	require.Equal(t, "/login", d.Intent.To)
}

// brokenStore fails every read, as an unreachable backend would.
type brokenStore struct{ sessions.Store }

func (brokenStore) Load(context.Context) (sessions.Session, error) {
	return sessions.Session{}, errors.New("connection refused")
}

func (brokenStore) Clear(context.Context) error {
	return errors.New("connection refused")
}

func TestActivate_StorageErrorRedirects(t *testing.T) {
	d := guard.New(brokenStore{}, nil).Activate(context.Background())
	require.False(t, d.Allowed)
	require.True(t, d.Intent.IsRedirect())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewAreaStore(memory.NewArea())
	require.NoError(t, store.Save(ctx, testSession))
	g := guard.New(store, nil)

	intent, err := g.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, navigation.Redirect("/login"), intent)

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, autherrors.ErrNoSession)
	require.False(t, g.Activate(ctx).Allowed)

	intent, err = guard.New(brokenStore{}, nil).Logout(ctx)
	require.Error(t, err)
	require.Equal(t, "/login", intent.To)
}

func TestLandingFor_Defaults(t *testing.T) {
	l := guard.LandingFor(sessions.UserProfile{})
	require.Equal(t, "User", l.Name)
	require.Equal(t, "U", l.Initial)
	require.Equal(t, "-", l.ID)

	l = guard.LandingFor(sessions.UserProfile{Name: "张三"})
	require.Equal(t, "张", l.Initial)
}
