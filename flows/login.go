package flows

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-frontend/authclient"
	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/jrsteele09/go-auth-frontend/validation"
	"github.com/rs/zerolog/log"
)

const (
	flowLogin = "login"

	MsgLoginSuccess        = "Login successful, redirecting..."
	MsgLoginFailed         = "Login failed, please try again"
	MsgLoginNetworkFailure = "Network error, please try again later"

	DefaultRedirectDelay = time.Second
)

// LoginFlow is one login screen. Submit may be called from several goroutines;
// only one submission is in flight at a time.
type LoginFlow struct {
	api           Authenticator
	store         sessions.Store
	redirectDelay time.Duration
	metrics       *metrics.Recorder

	mu         sync.Mutex
	state      State
	generation string
}

type LoginOption func(*LoginFlow)

func WithRedirectDelay(d time.Duration) LoginOption {
	return func(f *LoginFlow) { f.redirectDelay = d }
}

func WithLoginMetrics(r *metrics.Recorder) LoginOption {
	return func(f *LoginFlow) { f.metrics = r }
}

func NewLoginFlow(api Authenticator, store sessions.Store, opts ...LoginOption) *LoginFlow {
	f := &LoginFlow{
		api:           api,
		store:         store,
		redirectDelay: DefaultRedirectDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *LoginFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Invalidate detaches the screen from any in-flight submission. A response that
// arrives afterwards is discarded and never touches the session store.
func (f *LoginFlow) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation = ""
	if f.state == Submitting {
		f.state = Idle
	}
}

// Submit runs one login attempt. It returns autherrors.ErrSubmissionInProgress when
// another attempt is still waiting on the API, and autherrors.ErrStaleResponse when
// the screen was invalidated while this attempt was in flight. Validation and API
// failures are reported through the Outcome, not the error.
func (f *LoginFlow) Submit(ctx context.Context, email, password string) (Outcome, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		f.metrics.FlowOutcome(flowLogin, "rejected_duplicate")
		return Outcome{State: Submitting}, autherrors.ErrSubmissionInProgress
	}

	f.state = Validating
	if fe := validation.CheckLogin(email, password); fe != nil {
		f.state = Idle
		f.mu.Unlock()
		f.metrics.FlowOutcome(flowLogin, "invalid")
		log.Debug().Str("field", fe.Field).Msg("Login form rejected")
		return Outcome{State: Idle, FieldError: fe, Message: fe.Message, Intent: navigation.None()}, nil
	}

	f.state = Submitting
	gen := uuid.New().String()
	f.generation = gen
	f.mu.Unlock()

	res, err := f.api.Login(ctx, authclient.Credentials{Email: email, Password: password})

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generation != gen {
		f.metrics.FlowOutcome(flowLogin, "stale")
		log.Info().Str("generation", gen).Msg("Discarding login response for a superseded submission")
		return Outcome{State: f.state, Generation: gen, Intent: navigation.None()}, autherrors.ErrStaleResponse
	}
	f.generation = ""

	if err != nil {
		f.state = Idle
		f.metrics.FlowOutcome(flowLogin, outcomeLabel(err))
		log.Err(err).Str("generation", gen).Msg("Login failed")
		return Outcome{
			State:      Failed,
			Message:    failureMessage(err, MsgLoginFailed, MsgLoginNetworkFailure),
			Intent:     navigation.None(),
			Generation: gen,
			Cause:      err,
		}, nil
	}

	// the session must be durable before the redirect is handed out
	if err := f.store.Save(ctx, res.Session()); err != nil {
		f.state = Idle
		f.metrics.FlowOutcome(flowLogin, "storage_error")
		log.Err(err).Str("generation", gen).Msg("Login succeeded but the session could not be saved")
		return Outcome{
			State:      Failed,
			Message:    MsgLoginFailed,
			Intent:     navigation.None(),
			Generation: gen,
			Cause:      err,
		}, nil
	}

	f.state = Success
	f.metrics.FlowOutcome(flowLogin, "success")
	log.Info().Int64("user_id", res.User.ID).Str("generation", gen).Msg("Login succeeded")
	return Outcome{
		State:      Success,
		Message:    MsgLoginSuccess,
		Intent:     navigation.RedirectAfter(navigation.RouteLanding, f.redirectDelay),
		Generation: gen,
	}, nil
}
