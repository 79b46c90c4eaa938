package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/educonect/educonect/pkg/domain"
)

// Login exchanges credentials for a token and the account.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// ValidateToken asks the backend whether the current token is still accepted.
// The backend answers with a bare boolean or {"valid": bool}.
func (c *Client) ValidateToken(ctx context.Context) (bool, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/auth/validate", &raw); err != nil {
		return false, fmt.Errorf("client.ValidateToken: %w", err)
	}
	var valid bool
	if err := json.Unmarshal(raw, &valid); err == nil {
		return valid, nil
	}
	var obj struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, fmt.Errorf("client.ValidateToken: decode: %w", err)
	}
	return obj.Valid, nil
}

// UpdateProfile patches the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	var u domain.User
	if err := c.patch(ctx, "/users/profile", patch, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &u, nil
}

// ChangePassword replaces the caller's password.
func (c *Client) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	if err := c.post(ctx, "/auth/change-password", req, nil); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}

// RequestPasswordReset mails a reset link to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if err := c.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("client.RequestPasswordReset: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := c.post(ctx, "/auth/reset-password", req, nil); err != nil {
		return fmt.Errorf("client.ResetPassword: %w", err)
	}
	return nil
}
