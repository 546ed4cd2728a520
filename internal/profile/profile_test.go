package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastore-web/datastore/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.API{URL: srv.URL + "/", Key: "internal-key", Timeout: time.Second})
}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotAuth string

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"onboardingCompleted":false,"onboardingStep":2,"email":"a@example.com"}`))
	})

	p, err := c.Fetch(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "/api/user/42", gotPath)
	assert.Equal(t, "Bearer internal-key", gotAuth)
	assert.False(t, p.OnboardingCompleted)
	assert.Equal(t, 2, p.Step())
	assert.False(t, p.NeedsOnboarding())
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{}`, ErrUnexpectedStatus},
		{"unauthorized", http.StatusUnauthorized, ``, ErrUnexpectedStatus},
		{"server error", http.StatusInternalServerError, ``, ErrUnexpectedStatus},
		{"broken json", http.StatusOK, `{"onboardingStep":`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			p, err := c.Fetch(context.Background(), "1")
			assert.Nil(t, p)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_Fetch_EmptyID(t *testing.T) {
	c := NewClient(config.API{URL: "http://127.0.0.1:1"})

	_, err := c.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.API{URL: url, Timeout: time.Second})

	_, err := c.Fetch(context.Background(), "1")
	assert.Error(t, err)
}

func step(n int) *int { return &n }

func TestProfile_NeedsOnboarding(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{"not started", Profile{OnboardingStep: step(0)}, true},
		{"in progress", Profile{OnboardingStep: step(1)}, false},
		{"completed", Profile{OnboardingCompleted: true, OnboardingStep: step(0)}, false},
		{"step missing", Profile{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.NeedsOnboarding())
		})
	}
}

func TestClient_Fetch_MissingStep(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"onboardingCompleted":false}`))
	})

	p, err := c.Fetch(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, -1, p.Step())
	assert.False(t, p.NeedsOnboarding())
}
