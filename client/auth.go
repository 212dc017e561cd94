package client

import "context"

// LoginInput carries credentials for session establishment.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IDNumber string `json:"idNumber"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         SessionUser `json:"user"`
}

// Login authenticates and establishes the session on success.
func (c *Client) Login(ctx context.Context, input LoginInput) (SessionUser, error) {
	var resp loginResponse
	if err := c.post(ctx, "/auth/login", input, &resp); err != nil {
		return SessionUser{}, err
	}
	c.session.Establish(resp.Token, resp.User)
	return resp.User, nil
}

// Register creates an account. It does not establish a session; callers log
// in afterwards.
func (c *Client) Register(ctx context.Context, input RegisterInput) (SessionUser, error) {
	var resp struct {
		User SessionUser `json:"user"`
	}
	if err := c.post(ctx, "/auth/register", input, &resp); err != nil {
		return SessionUser{}, err
	}
	return resp.User, nil
}

// Logout invalidates the server-side token version and clears the session
// regardless of the call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/auth/logout", struct{}{}, nil)
	c.session.Clear()
	return err
}
