package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/elitepos/pos-terminal/internal/api"
)

var ErrValidation = errors.New("validation")

type Step int

const (
	StepAnonymous Step = iota
	StepOTPPending
	StepAuthenticated
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type otpInput struct {
	Code string `validate:"required,len=6,numeric"`
}

var validate = validator.New()

// Sessions is the token store slice the flow needs.
type Sessions interface {
	Set(token string) error
	Clear()
	Authenticated() bool
}

// Authenticator is the API client slice the flow needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	VerifyOTP(ctx context.Context, email, otp string) (*api.VerifyOTPResponse, error)
}

// Flow walks anonymous → credentials submitted → OTP pending →
// authenticated. A failure at any step keeps the current step; nothing
// retries on its own.
type Flow struct {
	mu       sync.Mutex
	client   Authenticator
	sessions Sessions

	step     Step
	email    string
	password string
}

func NewFlow(client Authenticator, sessions Sessions) *Flow {
	step := StepAnonymous
	if sessions.Authenticated() {
		step = StepAuthenticated
	}
	return &Flow{client: client, sessions: sessions, step: step}
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Login submits credentials; success means the backend dispatched a
// one-time code and the flow moves to StepOTPPending. The credentials
// stay held so Resend can replay them.
func (f *Flow) Login(ctx context.Context, email, password string) error {
	if err := validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, validationMessage(err))
	}

	resp, err := f.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("login rejected: %s", resp.Message)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
	f.password = password
	f.step = StepOTPPending
	return nil
}

// Resend re-triggers the login call with the held credentials.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	email, password, step := f.email, f.password, f.step
	f.mu.Unlock()
	if step != StepOTPPending {
		return fmt.Errorf("%w: no code pending", ErrValidation)
	}
	_, err := f.client.Login(ctx, email, password)
	return err
}

// VerifyOTP exchanges the code for a bearer token, persists it and
// completes the flow.
func (f *Flow) VerifyOTP(ctx context.Context, code string) error {
	if err := validate.Struct(otpInput{Code: code}); err != nil {
		return fmt.Errorf("%w: enter the 6-digit code", ErrValidation)
	}

	f.mu.Lock()
	email, step := f.email, f.step
	f.mu.Unlock()
	if step != StepOTPPending {
		return fmt.Errorf("%w: no code pending", ErrValidation)
	}

	resp, err := f.client.VerifyOTP(ctx, email, code)
	if err != nil {
		return err
	}
	if !resp.Success || resp.Token == "" {
		return errors.New("verification rejected")
	}
	if err := f.sessions.Set(resp.Token); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = ""
	f.step = StepAuthenticated
	return nil
}

// Logout clears the stored token and returns to anonymous. Clearing the
// cart and resetting navigation is the UI's job.
func (f *Flow) Logout() {
	f.sessions.Clear()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = ""
	f.password = ""
	f.step = StepAnonymous
}

// Expire drops to anonymous without touching the store; used when a 401
// already cleared the token.
func (f *Flow) Expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = ""
	f.step = StepAnonymous
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "email":
			return "enter a valid email"
		case "min":
			return "password is too short"
		default:
			return verrs[0].Field() + " is required"
		}
	}
	return err.Error()
}
