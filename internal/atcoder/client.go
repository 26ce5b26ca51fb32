// Package atcoder fetches the AtCoder Problems dataset: difficulty
// estimates, problem metadata, and the time-ordered submissions feed.
package atcoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"atcoder_bingo/internal/domain/model"
	"atcoder_bingo/pkg/metrics"
)

const requestTimeout = 30 * time.Second

type Client struct {
	httpClient   *http.Client
	resourcesURL string
	apiURL       string
	fetchDelay   time.Duration
}

// NewClient builds a feed client. fetchDelay is the politeness delay slept
// after every response before the next request may go out; the upstream
// API is a shared community service.
func NewClient(resourcesURL, apiURL string, fetchDelay time.Duration) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		resourcesURL: resourcesURL,
		apiURL:       apiURL,
		fetchDelay:   fetchDelay,
	}
}

// FetchDifficulties returns the raw difficulty feed keyed by problem id.
// Filtering of unusable estimates is the catalog builder's job.
func (c *Client) FetchDifficulties(ctx context.Context) (map[string]model.DifficultyEstimate, error) {
	var estimates map[string]model.DifficultyEstimate
	if err := c.getJSON(ctx, c.resourcesURL+"/problem-models.json", "difficulty", &estimates); err != nil {
		return nil, err
	}
	return estimates, nil
}

// FetchProblemInfo returns the problem metadata feed.
func (c *Client) FetchProblemInfo(ctx context.Context) ([]model.ProblemInfo, error) {
	var infos []model.ProblemInfo
	if err := c.getJSON(ctx, c.resourcesURL+"/problems.json", "metadata", &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

type rawSubmission struct {
	ID          int64  `json:"id"`
	EpochSecond int64  `json:"epoch_second"`
	ProblemID   string `json:"problem_id"`
	UserID      string `json:"user_id"`
	Result      string `json:"result"`
}

// FetchSubmissionsFrom returns one page (at most the upstream page size,
// 1000) of submissions at or after begin, in ascending time order.
func (c *Client) FetchSubmissionsFrom(ctx context.Context, begin time.Time) ([]model.Submission, error) {
	url := fmt.Sprintf("%s/v3/from/%d", c.apiURL, begin.Unix())
	var raw []rawSubmission
	if err := c.getJSON(ctx, url, "submissions", &raw); err != nil {
		return nil, err
	}

	submissions := make([]model.Submission, 0, len(raw))
	for _, r := range raw {
		submissions = append(submissions, model.Submission{
			ID:             r.ID,
			SubmissionTime: time.Unix(r.EpochSecond, 0),
			ProblemID:      r.ProblemID,
			UserID:         r.UserID,
			Accepted:       r.Result == "AC",
		})
	}
	return submissions, nil
}

// getJSON issues one GET, decodes the body, then sleeps the politeness
// delay. Requests through one client are expected to be sequential; the
// pollers never overlap their own cycles.
func (c *Client) getJSON(ctx context.Context, url, feed string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("atcoder.Client: build request for %s: %w", url, err)
	}

	metrics.FeedRequests.WithLabelValues(feed).Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("atcoder.Client: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("atcoder.Client: GET %s: unexpected status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("atcoder.Client: decode %s: %w", url, err)
	}

	return c.politenessSleep(ctx)
}

func (c *Client) politenessSleep(ctx context.Context) error {
	if c.fetchDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.fetchDelay):
		return nil
	}
}
