package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/session"
)

// Login authenticates against the portal and stores the session in every
// configured backend.
func (c *Client) Login(ctx context.Context, username, password string) (*models.UserInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationErr("Username and password are required")
	}

	env, err := c.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, "Login failed. Please try again.")
	if err != nil {
		return nil, err
	}

	var user models.UserInfo
	if err := env.decode("user", &user); err != nil {
		return nil, serverErr("", "Login failed. Please try again.")
	}
	var token string
	if err := env.decode("token", &token); err != nil || token == "" {
		return nil, serverErr("", "Login failed. Please try again.")
	}

	if c.session != nil {
		if err := c.session.Set(&session.Identity{
			UserID:   user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
			Token:    token,
		}); err != nil {
			return nil, &Error{Kind: KindValidation, Message: "Failed to save session"}
		}
	}
	return &user, nil
}

// Logout clears the stored session. No server call is needed; tokens are
// stateless.
func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	if err := c.session.Clear(); err != nil {
		return &Error{Kind: KindValidation, Message: "Failed to clear session"}
	}
	return nil
}
