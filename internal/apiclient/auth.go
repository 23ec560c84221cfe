package apiclient

import (
	"context"
	"errors"
	"net/http"
)

// Me is the signed-in account as /auth/me reports it.
type Me struct {
	Email string `json:"email"`
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return err
	}
	return c.Tokens.Save(out.AccessToken)
}

func (c *Client) Register(ctx context.Context, email, password, confirm string) error {
	body := map[string]string{"email": email, "password": password, "password_confirm": confirm}
	return c.do(ctx, http.MethodPost, "/auth/register", nil, body, nil)
}

// CurrentUser returns nil without a stored token. A token the server
// rejects is cleared silently; transport errors leave it in place.
func (c *Client) CurrentUser(ctx context.Context) (*Me, error) {
	if !c.IsAuthenticated() {
		return nil, nil
	}
	var me Me
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &me)
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if cerr := c.Tokens.Clear(); cerr != nil {
			return nil, cerr
		}
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &me, nil
}

// Logout tells the server and drops the local token even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if cerr := c.Tokens.Clear(); cerr != nil {
		return cerr
	}
	return err
}

func (c *Client) IsAuthenticated() bool { return c.Tokens.Token() != "" }
