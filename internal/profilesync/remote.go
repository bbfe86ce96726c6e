// Package profilesync keeps the local profile cache consistent with the
// remote profile store using a cache-aside, stale-while-revalidate policy.
package profilesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Profile is the remote representation of a user profile.
type Profile struct {
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Website  string `json:"website,omitempty"`
}

// UpsertParams are the writable profile fields.
type UpsertParams struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Website  string `json:"website"`
}

// upsertPayload is the row sent for upserting (needs id and updated_at).
type upsertPayload struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Website   string `json:"website"`
	UpdatedAt string `json:"updated_at"`
}

// RemoteStore is the remote profile API consumed by the repository.
type RemoteStore interface {
	Fetch(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, userID string, params UpsertParams) error
}

// HTTPStore talks to the remote profile API over HTTP with bounded retries.
type HTTPStore struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	retryDelay []time.Duration
}

// HTTPOptions configures the HTTP store.
type HTTPOptions struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
}

// NewHTTPStore creates a remote store against the given base URL.
func NewHTTPStore(opts HTTPOptions) *HTTPStore {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if len(opts.RetryDelays) == 0 {
		opts.RetryDelays = []time.Duration{0, 5 * time.Second, 30 * time.Second}
	}
	return &HTTPStore{
		baseURL:    opts.BaseURL,
		client:     &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelays,
	}
}

// Fetch retrieves the profile row for a user id.
func (s *HTTPStore) Fetch(ctx context.Context, userID string) (Profile, error) {
	var profile Profile
	body, err := s.do(ctx, http.MethodGet, fmt.Sprintf("%s/profiles/%s", s.baseURL, userID), nil)
	if err != nil {
		return profile, err
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return profile, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

// Upsert writes the profile row, keyed on the user id.
func (s *HTTPStore) Upsert(ctx context.Context, userID string, params UpsertParams) error {
	payload := upsertPayload{
		ID:        userID,
		Username:  params.Username,
		FullName:  params.FullName,
		Website:   params.Website,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.do(ctx, http.MethodPost, s.baseURL+"/profiles", data)
	return err
}

// do sends a request with retry on rate limiting and server errors.
func (s *HTTPStore) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		// Wait before retry (except first attempt)
		if attempt > 0 && attempt < len(s.retryDelay) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay[attempt]):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "Foqos/1.0")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		// Rate limiting and server errors are retried.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, string(respBody))
			continue
		}

		// Client error - don't retry.
		return nil, fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("max retries exceeded")
	}
	return nil, lastErr
}
