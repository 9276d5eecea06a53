package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"feedback-backend/internal/models"
)

const defaultFetchTimeout = 10 * time.Second

// HTTPFetcher reads the submission feed from a running server.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(baseURL string) (*HTTPFetcher, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("poller: server URL is required")
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultFetchTimeout)

	return &HTTPFetcher{client: c}, nil
}

func (f *HTTPFetcher) FetchSubmissions(ctx context.Context) ([]models.Submission, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get("/api/submissions")
	if err != nil {
		return nil, fmt.Errorf("poller: fetch submissions: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("poller: fetch submissions: status %d: %s", resp.StatusCode(), resp.String())
	}

	var subs []models.Submission
	if err := json.Unmarshal(resp.Body(), &subs); err != nil {
		return nil, fmt.Errorf("poller: decode submissions: %w", err)
	}
	if subs == nil {
		return nil, errors.New("poller: decode submissions: expected a JSON array")
	}
	return subs, nil
}
