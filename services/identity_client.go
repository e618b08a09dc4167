package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// IdentityProvider mirrors the admin capability flag into the identity
// provider's custom claims for a user.
type IdentityProvider interface {
	SetAdminClaim(ctx context.Context, userID string, isAdmin bool) error
}

// IdentityClient communicates with the auth service via HTTP
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIdentityClient creates a new IdentityClient
func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ClaimsRequest is the payload sent to PUT /internal/users/:id/claims
type ClaimsRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// SetAdminClaim sets the isAdmin custom claim for a user. Setting the same
// claim twice is a no-op on the auth service side, so retries are safe.
func (c *IdentityClient) SetAdminClaim(ctx context.Context, userID string, isAdmin bool) error {
	url := fmt.Sprintf("%s/internal/users/%s/claims", c.baseURL, userID)

	body, err := json.Marshal(ClaimsRequest{IsAdmin: isAdmin})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("identity service has no user %s", userID)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity service returned %d", resp.StatusCode)
	}
	return nil
}
