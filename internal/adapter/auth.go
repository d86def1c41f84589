package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/models"
)

var errMissingToken = errors.New("response carried no access token")

// Login exchanges credentials for tokens and stores the resulting session
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var sess models.Session
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        body,
		contentType: "application/json",
		public:      true,
		fallback:    "Login failed",
	}, &sess)
	if err != nil {
		return nil, err
	}
	if sess.AccessToken == "" {
		return nil, apperrors.NewDecodeError("POST /auth/login", errMissingToken)
	}

	if err := c.sessions.Save(ctx, &sess); err != nil {
		return nil, apperrors.NewInternalError("storing session", err)
	}
	return &sess, nil
}

// Logout forgets the stored session; the server keeps no logout state
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}

// CurrentUser returns the profile cached at login
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		return nil, apperrors.NewNotLoggedInError()
	}
	user := sess.User
	return &user, nil
}
