package flows

import (
	"context"
	"sync"

	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/validation"
	"github.com/rs/zerolog/log"
)

const (
	flowForgotPassword = "forgot_password"

	MsgResetSent           = "Password reset email sent"
	MsgResetFailed         = "Request failed, please try again later"
	MsgResetNetworkFailure = "Network error, please check your connection"
)

// ForgotPasswordFlow is one forgot-password screen. Once a request succeeds the
// screen stays on its confirmation until Reset is called.
type ForgotPasswordFlow struct {
	api     PasswordResetter
	metrics *metrics.Recorder

	mu         sync.Mutex
	state      State
	generation string
	confirmed  string
}

func NewForgotPasswordFlow(api PasswordResetter, r *metrics.Recorder) *ForgotPasswordFlow {
	return &ForgotPasswordFlow{api: api, metrics: r}
}

func (f *ForgotPasswordFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Confirmed returns the acknowledged address while the confirmation view is showing.
func (f *ForgotPasswordFlow) Confirmed() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmed, f.state == Success
}

// Reset leaves the confirmation view ("back to login") and returns the intent for it.
func (f *ForgotPasswordFlow) Reset() navigation.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Submitting {
		f.state = Idle
	}
	f.confirmed = ""
	return navigation.Redirect(navigation.RouteLogin)
}

func (f *ForgotPasswordFlow) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation = ""
	if f.state == Submitting {
		f.state = Idle
	}
}

// Submit requests a reset email. Errors follow LoginFlow.Submit.
func (f *ForgotPasswordFlow) Submit(ctx context.Context, email string) (Outcome, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		f.metrics.FlowOutcome(flowForgotPassword, "rejected_duplicate")
		return Outcome{State: Submitting}, autherrors.ErrSubmissionInProgress
	}

	f.state = Validating
	if fe := validation.CheckEmail(email); fe != nil {
		f.state = Idle
		f.mu.Unlock()
		f.metrics.FlowOutcome(flowForgotPassword, "invalid")
		return Outcome{State: Idle, FieldError: fe, Message: fe.Message, Intent: navigation.None()}, nil
	}

	f.state = Submitting
	gen := uuid.New().String()
	f.generation = gen
	f.mu.Unlock()

	res, err := f.api.RequestPasswordReset(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generation != gen {
		f.metrics.FlowOutcome(flowForgotPassword, "stale")
		log.Info().Str("generation", gen).Msg("Discarding password reset response for a superseded submission")
		return Outcome{State: f.state, Generation: gen, Intent: navigation.None()}, autherrors.ErrStaleResponse
	}
	f.generation = ""

	if err != nil {
		f.state = Idle
		f.metrics.FlowOutcome(flowForgotPassword, outcomeLabel(err))
		log.Err(err).Str("generation", gen).Msg("Password reset request failed")
		return Outcome{
			State:      Failed,
			Message:    failureMessage(err, MsgResetFailed, MsgResetNetworkFailure),
			Intent:     navigation.None(),
			Generation: gen,
			Cause:      err,
		}, nil
	}

	acknowledged := res.Email
	if acknowledged == "" {
		acknowledged = email
	}
	f.state = Success
	f.confirmed = acknowledged
	f.metrics.FlowOutcome(flowForgotPassword, "success")
	log.Info().Str("generation", gen).Msg("Password reset email requested")

	message := res.Message
	if message == "" {
		message = MsgResetSent
	}
	return Outcome{
		State:      Success,
		Message:    message,
		Intent:     navigation.None(),
		Generation: gen,
		Email:      acknowledged,
	}, nil
}
