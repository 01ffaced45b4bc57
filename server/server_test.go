package server

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-frontend/authclient"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/mockapi"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/jrsteele09/go-auth-frontend/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	srv      *httptest.Server
	frontend *Server
	storage  *memory.InMemoryProvider
}

func newHarness(t *testing.T, newAPI APIFactory) *testHarness {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("REDIRECT_DELAY", "1s")

	if newAPI == nil {
		backend := httptest.NewServer(mockapi.New(mockapi.Options{SigningKey: "test"}))
		t.Cleanup(backend.Close)
		newAPI = func(store sessions.Store) AuthAPI {
			return authclient.New(backend.URL, authclient.WithTokenSource(authclient.SessionTokenSource{Store: store}))
		}
	}

	reg := prometheus.NewRegistry()
	provider := memory.NewInMemoryProvider()
	frontend, err := New(config.New(), Deps{
		Storage:  provider,
		NewAPI:   newAPI,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(frontend)
	t.Cleanup(srv.Close)
	return &testHarness{srv: srv, frontend: frontend, storage: provider}
}

// newBrowser returns a client that keeps cookies and does not follow redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func postForm(t *testing.T, c *http.Client, u string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(config.New(), Deps{NewAPI: func(sessions.Store) AuthAPI { return nil }})
	require.Error(t, err)
	_, err = New(config.New(), Deps{Storage: memory.NewInMemoryProvider()})
	require.Error(t, err)
}

func TestLanding_RedirectsWithoutSession(t *testing.T) {
	h := newHarness(t, nil)
	browser := newBrowser(t)

	for _, path := range []string{RouteLanding, RouteHome} {
		resp, _ := get(t, browser, h.srv.URL+path)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, RouteLogin, resp.Header.Get("Location"))
	}

	u, _ := url.Parse(h.srv.URL)
	cookies := browser.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	require.Equal(t, clientCookieName, cookies[0].Name)
}

func TestLoginLandingLogout(t *testing.T) {
	h := newHarness(t, nil)
	browser := newBrowser(t)

	resp, body := get(t, browser, h.srv.URL+RouteLogin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `action="/login"`)
	require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))

	resp, body = postForm(t, browser, h.srv.URL+RouteLogin, url.Values{
		"email":    {"zs@example.com"},
		"password": {"secret1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Login successful, redirecting...")
	require.Contains(t, body, `content="1;url=/"`)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp, body = get(t, browser, h.srv.URL+RouteLanding)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Welcome back, Zhang San!")
	require.Contains(t, body, "zs@example.com")
	require.Contains(t, body, "ID: 1")

	resp, _ = postForm(t, browser, h.srv.URL+RouteLogout, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, RouteLogin, resp.Header.Get("Location"))

	resp, _ = get(t, browser, h.srv.URL+RouteHome)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogin_ValidationError(t *testing.T) {
	h := newHarness(t, nil)
	browser := newBrowser(t)

	resp, body := postForm(t, browser, h.srv.URL+RouteLogin, url.Values{
		"email":    {"not-an-email"},
		"password": {"secret1"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "Please enter a valid email address")
	require.Contains(t, body, `value="not-an-email"`)
	require.Zero(t, h.frontend.clients.active())
}

func TestClientsAreIsolated(t *testing.T) {
	h := newHarness(t, nil)
	alice, bob := newBrowser(t), newBrowser(t)

	resp, _ := postForm(t, alice, h.srv.URL+RouteLogin, url.Values{"email": {"a@example.com"}, "password": {"secret1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, alice, h.srv.URL+RouteLanding)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, bob, h.srv.URL+RouteLanding)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestForgotPassword(t *testing.T) {
	h := newHarness(t, nil)
	browser := newBrowser(t)

	resp, body := get(t, browser, h.srv.URL+RouteForgotPassword)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `action="/forgot-password"`)

	resp, body = postForm(t, browser, h.srv.URL+RouteForgotPassword, url.Values{"email": {"   "}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "Please enter your email")

	resp, body = postForm(t, browser, h.srv.URL+RouteForgotPassword, url.Values{"email": {"zs@example.com"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Password reset email sent")
	require.Contains(t, body, "<strong>zs@example.com</strong>")
	require.Contains(t, body, `href="/login"`)
}

// blockingAPI holds every call until release is closed.
type blockingAPI struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Login(ctx context.Context, creds authclient.Credentials) (authclient.LoginResult, error) {
	b.entered <- struct{}{}
	<-b.release
	return authclient.LoginResult{
		Token:   "tok",
		User:    sessions.UserProfile{ID: 9, Name: "Blocked", Email: creds.Email},
		Message: "Login successful",
	}, nil
}

func (b *blockingAPI) RequestPasswordReset(_ context.Context, email string) (authclient.ResetResult, error) {
	b.entered <- struct{}{}
	<-b.release
	return authclient.ResetResult{Email: email}, nil
}

func TestLogin_DuplicateSubmissionRejected(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
	h := newHarness(t, func(sessions.Store) AuthAPI { return api })
	browser := newBrowser(t)
	get(t, browser, h.srv.URL+RouteLogin) // picks up the client cookie

	form := url.Values{"email": {"zs@example.com"}, "password": {"secret1"}}

	var wg sync.WaitGroup
	var firstStatus int
	wg.Add(1)
	go func() {
		defer wg.Done()
		resp, err := browser.PostForm(h.srv.URL+RouteLogin, form)
		if err == nil {
			firstStatus = resp.StatusCode
			resp.Body.Close()
		}
	}()

	select {
	case <-api.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the API")
	}

	resp, body := postForm(t, browser, h.srv.URL+RouteLogin, form)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, body, msgSubmissionInProgress)

	close(api.release)
	wg.Wait()
	require.Equal(t, http.StatusOK, firstStatus)
	require.Zero(t, h.frontend.clients.active())
}

func TestLogin_LeavingScreenDiscardsResponse(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
	h := newHarness(t, func(sessions.Store) AuthAPI { return api })
	browser := newBrowser(t)
	get(t, browser, h.srv.URL+RouteLogin)

	done := make(chan *http.Response, 1)
	go func() {
		resp, err := browser.PostForm(h.srv.URL+RouteLogin, url.Values{"email": {"zs@example.com"}, "password": {"secret1"}})
		if err != nil {
			done <- nil
			return
		}
		resp.Body.Close()
		done <- resp
	}()
	<-api.entered

	// the user navigates to the forgot-password screen mid-request
	resp, _ := get(t, browser, h.srv.URL+RouteForgotPassword)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	close(api.release)

	first := <-done
	require.NotNil(t, first)
	require.Equal(t, http.StatusSeeOther, first.StatusCode)

	resp, _ = get(t, browser, h.srv.URL+RouteLanding)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "stale login must not create a session")
}

func TestStaticAndMetrics(t *testing.T) {
	h := newHarness(t, nil)
	browser := newBrowser(t)

	resp, body := get(t, browser, h.srv.URL+"/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css"))
	require.Contains(t, body, ".auth-card")

	resp, _ = get(t, browser, h.srv.URL+"/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	get(t, browser, h.srv.URL+RouteLanding)
	resp, body = get(t, browser, h.srv.URL+RouteMetrics)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `authfront_guard_decisions_total{decision="redirect"} 1`)
}

func TestRecoverMiddleware(t *testing.T) {
	s := &Server{}
	handler := ChainMiddleware(func(http.ResponseWriter, *http.Request) { panic("boom") }, s.RecoverMiddleware)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClientScope_ReplacesMalformedCookie(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: clientCookieName, Value: "../../etc"})
	rec := httptest.NewRecorder()

	scope := s.clientScope(rec, req)
	require.NotEqual(t, "../../etc", scope)
	require.Contains(t, rec.Header().Get("Set-Cookie"), clientCookieName+"="+scope)
}

func TestFollowIntent(t *testing.T) {
	tests := []struct {
		name   string
		intent navigation.Intent
		want   string
	}{
		{"redirect", navigation.Redirect(RouteForgotPassword), RouteForgotPassword},
		{"none falls back", navigation.None(), RouteLogin},
		{"redirect without target falls back", navigation.Intent{Kind: navigation.KindRedirect}, RouteLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			followIntent(w, httptest.NewRequest(http.MethodGet, RouteLanding, nil), tt.intent, RouteLogin)
			require.Equal(t, http.StatusSeeOther, w.Code)
			require.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}
