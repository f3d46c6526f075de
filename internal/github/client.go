package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmedsami/octochat/internal/models"
)

// perPage caps every search call; the formatter never renders more anyway.
const perPage = 15

// Client is a minimal wrapper around GitHub's REST API v3.
// It is intentionally light—just the search endpoints the fast path requires.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient returns a ready-to-use GitHub API client.
// token may be an empty string, but you will be subject to very low rate‑limits.
func NewClient(token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: "https://api.github.com",
		token:   token,
	}
}

// NewClientWithBaseURL is NewClient pointed at a non-default API host.
// Used by tests and GitHub Enterprise deployments.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// repoSearchResponse mirrors GET /search/repositories.
type repoSearchResponse struct {
	TotalCount int           `json:"total_count"`
	Items      []models.Repo `json:"items"`
}

// issueSearchResponse mirrors GET /search/issues (issues and PRs alike).
type issueSearchResponse struct {
	TotalCount int            `json:"total_count"`
	Items      []models.Issue `json:"items"`
}

// SearchRepos runs a repository search and returns up to perPage items
// plus the total match count.
func (c *Client) SearchRepos(ctx context.Context, q models.Query) ([]models.Repo, int, error) {
	req, err := c.searchRequest(ctx, "/search/repositories", q.Q, q.Sort)
	if err != nil {
		return nil, 0, err
	}

	var result repoSearchResponse
	if err := c.do(req, &result); err != nil {
		return nil, 0, err
	}
	return result.Items, result.TotalCount, nil
}

// SearchIssues runs an issue search, restricted to issues or pull requests
// depending on the query domain (GitHub serves both from /search/issues).
func (c *Client) SearchIssues(ctx context.Context, q models.Query) ([]models.Issue, int, error) {
	qualifier := " is:issue"
	if q.Domain == models.DomainPRs {
		qualifier = " is:pr"
	}
	req, err := c.searchRequest(ctx, "/search/issues", q.Q+qualifier, q.Sort)
	if err != nil {
		return nil, 0, err
	}

	var result issueSearchResponse
	if err := c.do(req, &result); err != nil {
		return nil, 0, err
	}
	return result.Items, result.TotalCount, nil
}

// searchRequest builds an authenticated GET against a search endpoint.
func (c *Client) searchRequest(ctx context.Context, endpoint, query, sort string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("q", query)
	if sort != "" {
		q.Set("sort", sort)
	}
	q.Set("per_page", fmt.Sprint(perPage))
	req.URL.RawQuery = q.Encode()

	c.addHeaders(req)
	return req, nil
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "octochat-api")
}

// do executes the HTTP request and decodes JSON into v.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("github: unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
