package server

import (
	"sync"

	"github.com/jrsteele09/go-auth-frontend/flows"
)

// clientState holds the screens of one browser while a request from it is in
// flight. Sharing it is what lets a second submit see the first as Submitting.
type clientState struct {
	login  *flows.LoginFlow
	forgot *flows.ForgotPasswordFlow
	refs   int
}

type clientRegistry struct {
	mu      sync.Mutex
	clients map[string]*clientState
}

func newClientRegistry() *clientRegistry {
	return &clientRegistry{clients: make(map[string]*clientState)}
}

// acquire returns the state for scope, creating it with create when no request
// from that scope is active. The returned func must be called when the request ends.
func (c *clientRegistry) acquire(scope string, create func() (*clientState, error)) (*clientState, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.clients[scope]
	if !ok {
		var err error
		if st, err = create(); err != nil {
			return nil, nil, err
		}
		c.clients[scope] = st
	}
	st.refs++

	return st, func() { c.release(scope) }, nil
}

func (c *clientRegistry) release(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.clients[scope]
	if !ok {
		return
	}
	st.refs--
	if st.refs <= 0 {
		delete(c.clients, scope)
	}
}

// leave invalidates in-flight work for a scope whose browser has moved to
// another screen. keep names the screen being entered.
func (c *clientRegistry) leave(scope string, keep screen) {
	c.mu.Lock()
	st, ok := c.clients[scope]
	c.mu.Unlock()
	if !ok {
		return
	}
	if keep != screenLogin {
		st.login.Invalidate()
	}
	if keep != screenForgotPassword {
		st.forgot.Invalidate()
	}
}

func (c *clientRegistry) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

type screen int

const (
	screenLanding screen = iota
	screenLogin
	screenForgotPassword
)
