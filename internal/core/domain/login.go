package domain

import "fmt"

// LoginState is a step of the two-factor login flow.
type LoginState string

const (
	LoginAnonymous          LoginState = "anonymous"
	LoginCredentialsChecked LoginState = "credentials_checked"
	LoginOTPPending         LoginState = "otp_pending"
	LoginAuthenticated      LoginState = "authenticated"
	LoginRejected           LoginState = "rejected"
)

// loginTransitions lists the legal moves of the login state machine.
// Authenticated and rejected are terminal.
var loginTransitions = map[LoginState][]LoginState{
	LoginAnonymous:          {LoginCredentialsChecked, LoginRejected},
	LoginCredentialsChecked: {LoginOTPPending, LoginRejected},
	LoginOTPPending:         {LoginAuthenticated, LoginRejected},
}

// CanTransitionTo reports whether a login may move from s to next.
func (s LoginState) CanTransitionTo(next LoginState) bool {
	for _, allowed := range loginTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s LoginState) Terminal() bool {
	return len(loginTransitions[s]) == 0
}

// Credentials is the username/password pair submitted on both login steps.
// Username holds the account e-mail.
type Credentials struct {
	Username string
	Password string
}

// LoginAttempt tracks one request through the login state machine. It lives
// only for the duration of that request and is never persisted.
type LoginAttempt struct {
	Credentials Credentials
	State       LoginState
	Reason      error
}

// NewLoginAttempt starts an attempt in the anonymous state.
func NewLoginAttempt(creds Credentials) *LoginAttempt {
	return &LoginAttempt{Credentials: creds, State: LoginAnonymous}
}

// MoveTo advances the attempt, refusing illegal transitions.
func (a *LoginAttempt) MoveTo(next LoginState) error {
	if !a.State.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidLoginTransition, a.State, next)
	}
	a.State = next
	return nil
}

// Reject moves the attempt to the rejected state and records why. It returns
// reason so callers can write `return attempt, attempt.Reject(err)`.
func (a *LoginAttempt) Reject(reason error) error {
	if !a.State.Terminal() {
		a.State = LoginRejected
	}
	a.Reason = reason
	return reason
}
