package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hcskit/client-go/internal/raon"
)

// Portal endpoints.
const (
	PathHasPassword      = "/v2/hasPassword"
	PathKeypadSession    = "/transkey/session"
	PathValidatePassword = "/v2/validatePassword"
)

// HasPassword reports whether the account has a password configured.
func (c *Client) HasPassword(ctx context.Context) (bool, error) {
	var result bool
	if err := c.Do(ctx, http.MethodPost, PathHasPassword, struct{}{}, &result); err != nil {
		return false, err
	}
	return result, nil
}

// GetKeypadSession requests a fresh keypad layout and server public key.
func (c *Client) GetKeypadSession(ctx context.Context) (*KeypadSession, error) {
	var result KeypadSession
	if err := c.Do(ctx, http.MethodPost, PathKeypadSession, struct{}{}, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidatePassword submits an encrypted password. It is sent exactly once.
func (c *Client) ValidatePassword(ctx context.Context, req raon.Request) (*ValidateResult, error) {
	data, err := marshalBody(req)
	if err != nil {
		return nil, err
	}
	status, body, err := c.send(ctx, http.MethodPost, PathValidatePassword, data, 1)
	if err != nil {
		return nil, err
	}
	result, err := parseValidateResponse(status, body)
	if err != nil {
		return nil, fmt.Errorf("validate password: %w", err)
	}
	return result, nil
}
