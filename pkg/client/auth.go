package client

import (
	"context"
	"net/http"
	"net/url"

	"readmark/pkg/domain"
)

// Login exchanges credentials for a bearer token using the OAuth2-style
// password grant (form-encoded). On success the token is written to the
// session store before the call returns.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token domain.Token
	if err := c.doForm(ctx, http.MethodPost, loginPath, form, &token); err != nil {
		return domain.Token{}, err
	}
	if token.AccessToken != "" {
		if err := c.sessions.Set(token.AccessToken); err != nil {
			return domain.Token{}, err
		}
	}
	return token, nil
}

// Register creates a new account. It does not log the user in; call Login
// afterwards.
func (c *Client) Register(ctx context.Context, email, username, password string) (domain.User, error) {
	payload := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}
	var user domain.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, payload, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CurrentUser returns the account the stored token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Logout discards the stored token. The token itself is stateless
// server-side, so this is purely a local operation.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// Health probes the service liveness endpoint.
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var health domain.Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &health); err != nil {
		return domain.Health{}, err
	}
	return health, nil
}
