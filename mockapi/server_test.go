package mockapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-frontend/authclient"
	"github.com/jrsteele09/go-auth-frontend/flows"
	"github.com/jrsteele09/go-auth-frontend/mockapi"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/jrsteele09/go-auth-frontend/storage/memory"
	"github.com/stretchr/testify/require"
)

const testKey = "test-signing-key"

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newServer(t *testing.T, opts mockapi.Options) *httptest.Server {
	t.Helper()
	if opts.SigningKey == "" {
		opts.SigningKey = testKey
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	srv := httptest.NewServer(mockapi.New(opts))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newServer(t, mockapi.Options{})

	for _, body := range []string{`{"email":"a@b.co"}`, `{"password":"secret"}`, `{}`, `not json`} {
		resp, out := postJSON(t, srv.URL+authclient.PathLogin, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		require.EqualValues(t, 400, out["code"])
		require.Equal(t, mockapi.MsgLoginMissingFields, out["message"])
		require.Nil(t, out["data"])
	}
}

func TestLogin_AcceptsAnyCredentialsWithoutDirectory(t *testing.T) {
	srv := newServer(t, mockapi.Options{})

	resp, err := http.Post(srv.URL+authclient.PathLogin, "application/json",
		strings.NewReader(`{"email":"zs@example.com","password":"whatever"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var env authclient.Envelope[authclient.LoginData]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, authclient.CodeSuccess, env.Code)
	require.Equal(t, mockapi.MsgLoginSuccess, env.Message)
	require.NotNil(t, env.Data)
	require.Equal(t, int64(7200), env.Data.ExpiresIn)
	require.NotEmpty(t, env.Data.RefreshToken)
	require.Equal(t, "zs@example.com", env.Data.User.Email)
	require.Equal(t, mockapi.DefaultProfile.Name, env.Data.User.Name)

	claims := jwtlib.MapClaims{}
	_, err = jwtlib.ParseWithClaims(env.Data.Token, claims, func(*jwtlib.Token) (any, error) {
		return []byte(testKey), nil
	}, jwtlib.WithTimeFunc(func() time.Time { return fixedNow }), jwtlib.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.Equal(t, "1", claims["sub"])
	require.Equal(t, "zs@example.com", claims["email"])
	require.EqualValues(t, fixedNow.Add(mockapi.TokenExpiry).Unix(), claims["exp"])
	require.NotEmpty(t, claims["jti"])
}

func TestLogin_Directory(t *testing.T) {
	hash, err := mockapi.HashPassword("secret1")
	require.NoError(t, err)
	dir := mockapi.NewDirectory(mockapi.User{ID: 7, Name: "Li Si", Email: "ls@example.com", PasswordHash: hash})
	srv := newServer(t, mockapi.Options{Users: dir})

	resp, out := postJSON(t, srv.URL+authclient.PathLogin, `{"email":"ls@example.com","password":"wrong!"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, mockapi.MsgInvalidCredentials, out["message"])

	resp, out = postJSON(t, srv.URL+authclient.PathLogin, `{"email":"LS@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := out["data"].(map[string]any)["user"].(map[string]any)
	require.EqualValues(t, 7, user["id"])
	require.Equal(t, "Li Si", user["name"])
}

func TestForgotPassword(t *testing.T) {
	srv := newServer(t, mockapi.Options{})

	resp, out := postJSON(t, srv.URL+authclient.PathForgotPassword, `{"email":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, mockapi.MsgEmailMissing, out["message"])

	resp, out = postJSON(t, srv.URL+authclient.PathForgotPassword, `{"email":"zs@example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, mockapi.MsgResetSent, out["message"])
	require.Equal(t, "zs@example.com", out["data"].(map[string]any)["email"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t, mockapi.Options{})

	resp, err := http.Get(srv.URL + authclient.PathLogin)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCorsPreflight(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:8080")
	srv := newServer(t, mockapi.Options{Latency: time.Hour})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+authclient.PathLogin, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8080")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:8080", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLatency_ClientTimeoutIsNetworkError(t *testing.T) {
	srv := newServer(t, mockapi.Options{Latency: 500 * time.Millisecond})
	client := authclient.New(srv.URL, authclient.WithTimeout(50*time.Millisecond))

	_, err := client.Login(context.Background(), authclient.Credentials{Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	require.True(t, authclient.IsNetworkError(err))
}

func TestLoginFlowAgainstMockBackend(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, mockapi.Options{Latency: 10 * time.Millisecond})
	store := sessions.NewAreaStore(memory.NewArea())
	client := authclient.New(srv.URL, authclient.WithTokenSource(authclient.SessionTokenSource{Store: store}))
	flow := flows.NewLoginFlow(client, store)

	out, err := flow.Submit(ctx, "zs@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, flows.Success, out.State)
	require.Equal(t, "/", out.Intent.To)

	session, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "zs@example.com", session.User.Email)
	require.NotEmpty(t, session.Token)

	reset := flows.NewForgotPasswordFlow(client, nil)
	out, err = reset.Submit(ctx, "zs@example.com")
	require.NoError(t, err)
	require.Equal(t, flows.Success, out.State)
	email, ok := reset.Confirmed()
	require.True(t, ok)
	require.Equal(t, "zs@example.com", email)
}
