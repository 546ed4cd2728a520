// Package profile fetches user profiles from the internal user API.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/datastore-web/datastore/internal/config"
)

var (
	// ErrUnexpectedStatus is returned for any non 2xx answer of the user API.
	ErrUnexpectedStatus = errors.New("unexpected status from user api")
	// ErrEmptyUserID is returned when no user id is given.
	ErrEmptyUserID = errors.New("empty user id")
)

// Profile is the part of the user API answer the web layer needs.
// A missing onboardingStep stays nil and never counts as step 0.
type Profile struct {
	OnboardingCompleted bool `json:"onboardingCompleted"`
	OnboardingStep      *int `json:"onboardingStep"`
}

// Step returns the onboarding step, or -1 when the API did not report one.
func (p *Profile) Step() int {
	if p.OnboardingStep == nil {
		return -1
	}

	return *p.OnboardingStep
}

// NeedsOnboarding reports whether the user has not started onboarding yet.
func (p *Profile) NeedsOnboarding() bool {
	return !p.OnboardingCompleted && p.Step() == 0
}

// Fetcher loads the profile of a user id.
type Fetcher interface {
	Fetch(ctx context.Context, userID string) (*Profile, error)
}

// Client calls GET {API_URL}/api/user/{id} with the static internal bearer credential.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client from the API settings.
func NewClient(cfg config.API) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.Key,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	endpoint := c.baseURL + "/api/user/" + url.PathEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var p Profile
	if err = json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &p, nil
}
