package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/educonect/educonect/internal/guard"
	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

// ErrNoToken is returned by Validate when there is no session to check.
var ErrNoToken = errors.New("service: no token available")

// AuthService signs users in and out and keeps the session store current.
type AuthService struct {
	base
}

func NewAuthService(deps Deps) *AuthService {
	s := &AuthService{}
	s.init(deps, "auth")
	return s
}

// Login authenticates and stores the session. The session loading flag is
// raised for the duration of the call.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	if err := s.check("Login", req); err != nil {
		return nil, err
	}
	return s.signIn(ctx, "Login", func() (*domain.AuthResponse, error) {
		return s.api.Login(ctx, req)
	})
}

// Register creates an account and stores the new session.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := s.check("Register", req); err != nil {
		return nil, err
	}
	return s.signIn(ctx, "Register", func() (*domain.AuthResponse, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *AuthService) signIn(ctx context.Context, op string, call func() (*domain.AuthResponse, error)) (*domain.User, error) {
	done := s.begin()
	defer done()
	s.sess.SetLoading(true)

	resp, err := call()
	if err != nil {
		s.sess.SetLoading(false)
		// a rejected credential check leaves any current session alone
		return nil, s.classify(op, err, client.ResourceAuth)
	}
	if err := ctx.Err(); err != nil {
		s.sess.SetLoading(false)
		return nil, err
	}
	s.sess.SetUser(resp.User, resp.Token)
	s.log.Info().Int64("user_id", resp.User.ID).Str("role", string(resp.User.Role)).Msg(op + " succeeded")
	u := resp.User
	return &u, nil
}

// Logout ends the session locally.
func (s *AuthService) Logout() {
	s.sess.Logout()
	s.log.Info().Msg("logged out")
}

// Validate checks the token with the backend. Any rejection ends the session.
func (s *AuthService) Validate(ctx context.Context) (bool, error) {
	if s.sess.CurrentToken() == "" {
		return false, ErrNoToken
	}
	done := s.begin()
	defer done()

	valid, err := s.api.ValidateToken(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, err
		}
		if client.IsStatus(err, http.StatusUnauthorized) || client.IsStatus(err, http.StatusForbidden) {
			s.Logout()
		}
		return false, s.fail("Validate", err, client.ResourceAuth)
	}
	if !valid {
		s.Logout()
	}
	return valid, nil
}

// UpdateProfile saves profile changes and merges the result into the session.
func (s *AuthService) UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	done := s.begin()
	defer done()

	u, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, s.fail("UpdateProfile", err, client.ResourceUser)
	}
	s.sess.UpdateUser(domain.PatchFromUser(*u))
	return u, nil
}

// ChangePassword replaces the caller's password.
func (s *AuthService) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	if err := s.check("ChangePassword", req); err != nil {
		return err
	}
	done := s.begin()
	defer done()

	if err := s.api.ChangePassword(ctx, req); err != nil {
		return s.fail("ChangePassword", err, client.ResourceAuth)
	}
	return nil
}

// RequestPasswordReset mails a reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	done := s.begin()
	defer done()

	if err := s.api.RequestPasswordReset(ctx, email); err != nil {
		return s.fail("RequestPasswordReset", err, client.ResourceUser)
	}
	return nil
}

// ResetPassword completes a reset with the mailed token.
func (s *AuthService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := s.check("ResetPassword", req); err != nil {
		return err
	}
	done := s.begin()
	defer done()

	if err := s.api.ResetPassword(ctx, req); err != nil {
		return s.fail("ResetPassword", err, client.ResourceAuth)
	}
	return nil
}

// DashboardPath is where the signed-in user lands.
func (s *AuthService) DashboardPath() string {
	return guard.DashboardPath(s.sess.Role())
}
