// Package signup implements the account-creation flow: collect the signup
// form, prove control of the email with an OTP, then create the user record
// with a bcrypt-hashed password.
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/mkrfoods/storefront/internal/pkg/id"
	"github.com/mkrfoods/storefront/internal/pkg/identity"
	"github.com/mkrfoods/storefront/internal/pkg/validate"
)

// StartRequest is the signup form. The password travels inside the challenge
// payload until the email is verified.
type StartRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CompleteResult carries the verification outcome. User and AccessToken are
// only set when Outcome is otp.OutcomeVerified.
type CompleteResult struct {
	Outcome           otp.Outcome
	AttemptsRemaining int
	User              *domain.User
	AccessToken       string
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID, email, name string) (string, error)
}

type Service interface {
	Start(ctx context.Context, req StartRequest) (string, error)
	Complete(ctx context.Context, email, code string) (string, *CompleteResult, error)
	Resend(ctx context.Context, email string) (string, error)
}

type service struct {
	mgr    *otp.Manager
	users  userStore
	signer tokenSigner
	log    *slog.Logger
}

// ServiceDeps wires the signup flow. Signer may be nil when no JWT keypair is
// configured; Complete then returns the user without an access token.
type ServiceDeps struct {
	Manager   *otp.Manager
	UserStore userStore
	Signer    tokenSigner
	Logger    *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &service{mgr: deps.Manager, users: deps.UserStore, signer: deps.Signer, log: log}
}

// Start validates the form, checks the email is not already registered, and
// issues a challenge carrying the name and password. When the existence check
// fails for infrastructure reasons the flow degrades optimistically and lets
// the signup proceed; the check is repeated at Complete.
func (s *service) Start(ctx context.Context, req StartRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return "", err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("signup pre-check degraded, proceeding", "email", email, "error", err)
	}

	payload := &domain.SignupPayload{Name: req.Name, Password: req.Password}
	if _, err := s.mgr.Issue(ctx, email, payload); err != nil {
		return email, err
	}
	return email, nil
}

// Complete verifies the code and, on success, creates the user and signs an
// access token. The duplicate-email check runs again here because the
// pre-check in Start may have been degraded or raced.
func (s *service) Complete(ctx context.Context, rawEmail, code string) (string, *CompleteResult, error) {
	email, err := identity.NormalizeEmail(rawEmail)
	if err != nil {
		return "", nil, err
	}

	res, err := s.mgr.Verify(ctx, email, code)
	if err != nil {
		return email, nil, err
	}
	out := &CompleteResult{Outcome: res.Outcome, AttemptsRemaining: res.AttemptsRemaining}
	if res.Outcome != otp.OutcomeVerified {
		return email, out, nil
	}
	if res.Payload == nil {
		return email, nil, fmt.Errorf("challenge has no signup payload: %w", domain.ErrBadRequest)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return email, nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return email, nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(res.Payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return email, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		UserID:       id.New(),
		Name:         res.Payload.Name,
		Email:        email,
		PasswordHash: string(hash),
		Verified:     true,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, user); err != nil {
		return email, nil, fmt.Errorf("create user: %w", err)
	}
	out.User = user

	if s.signer != nil {
		token, err := s.signer.Sign(user.UserID, user.Email, user.Name)
		if err != nil {
			s.log.Warn("access token signing failed", "user_id", user.UserID, "error", err)
		} else {
			out.AccessToken = token
		}
	}
	return email, out, nil
}

// Resend re-issues the challenge for a pending signup. It fails with
// domain.ErrNoPendingChallenge when no signup is in flight for the email.
func (s *service) Resend(ctx context.Context, rawEmail string) (string, error) {
	email, err := identity.NormalizeEmail(rawEmail)
	if err != nil {
		return "", err
	}
	if _, err := s.mgr.Resend(ctx, email); err != nil {
		return email, err
	}
	return email, nil
}
