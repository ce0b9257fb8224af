package rating

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPSource reads profiles from an external profile service at
// GET {baseURL}/users/{id}/ratings.
type HTTPSource struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewHTTPSource builds a source with a per-attempt timeout. A non-positive
// timeout keeps the client default.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := retryablehttp.NewClient()
	if timeout > 0 {
		client.HTTPClient.Timeout = timeout
	}
	client.RetryMax = 3
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = nil
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPSource) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u := fmt.Sprintf("%s/users/%s/ratings", s.baseURL, url.PathEscape(userID))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pickleball-engine/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d for %s", resp.StatusCode, u)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return &p, nil
}
