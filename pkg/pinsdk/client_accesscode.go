package pinsdk

import (
	"context"
	"errors"
	"net/http"
)

var ErrNoToken = errors.New("pinsdk: an admin token is required")

// GenerateAccessCode issues a new code, replacing the active one. The client
// must carry a token with the pin:issue scope.
func (c *Client) GenerateAccessCode(ctx context.Context) (*AccessCodeResponse, error) {
	if c.Token == "" {
		return nil, ErrNoToken
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/access-code", nil)
	if err != nil {
		return nil, err
	}

	var out AccessCodeResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
