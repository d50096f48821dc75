package pinsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Verify submits candidate for action. A denied verification is a normal
// response with Authorized false. A 429 is returned as *RateLimitedError.
func (c *Client) Verify(ctx context.Context, action, candidate string) (*VerifyResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost,
		"/v1/actions/"+url.PathEscape(action)+"/verify",
		VerifyRequest{CandidateCode: candidate},
	)
	if err != nil {
		return nil, err
	}

	var out VerifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
