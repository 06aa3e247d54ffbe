// Package paystack verifies payment references against the Paystack
// transaction API. It is the only payment gateway this service talks to.
package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// VerifyResult reports what the gateway said about a reference. Success is
// the top-level acknowledgement; Status is the upstream transaction status
// string. Callers must accept only Success with Status "success".
type VerifyResult struct {
	Success bool
	Status  string
}

// Client calls the Paystack verification endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a client. baseURL is overridable for tests; the timeout
// bounds the whole verify call so a slow gateway cannot hang a request.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Verify confirms a transaction reference with the gateway.
// GET {base}/transaction/verify/{reference} with the secret as bearer token.
func (c *Client) Verify(ctx context.Context, secret, reference string) (VerifyResult, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verify transaction: %w", err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return VerifyResult{}, fmt.Errorf("decode verify response: %w", err)
	}
	return VerifyResult{Success: body.Status, Status: body.Data.Status}, nil
}
