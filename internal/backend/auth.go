package backend

import (
	"context"
	"net/http"
)

// User is the account summary returned on login.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse is returned by /auth/login.
type LoginResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup creates an account and returns the server's confirmation message.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, error) {
	var resp messageResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ForgotPassword requests a reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
