package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

const defaultEndpoint = "https://api.github.com"

// Client is a minimal GitHub REST client covering the event feeds the
// indexer consumes.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a GitHub API client. Token may be empty for
// unauthenticated (rate-limited) access.
func NewClient(endpoint, token string) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// User is the author fragment attached to most payloads.
type User struct {
	Login string `json:"login"`
}

// Pull is a pull request summary from the list endpoint.
type Pull struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	State     string  `json:"state"` // open, closed
	Draft     bool    `json:"draft"`
	User      User    `json:"user"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	MergedAt  *string `json:"merged_at"`
	ClosedAt  *string `json:"closed_at"`
}

// Review is one submitted pull request review.
type Review struct {
	ID          int64  `json:"id"`
	User        User   `json:"user"`
	State       string `json:"state"` // APPROVED, CHANGES_REQUESTED, COMMENTED
	SubmittedAt string `json:"submitted_at"`
}

// Comment is an issue-style comment on a pull request.
type Comment struct {
	ID        int64  `json:"id"`
	User      User   `json:"user"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// Commit is one commit on a pull request branch.
type Commit struct {
	SHA    string `json:"sha"`
	Author User   `json:"author"`
	Commit struct {
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// ParseTime converts a GitHub timestamp into time.Time when possible.
func ParseTime(s string) time.Time {
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// ListPulls returns pull requests for owner/repo ordered by last update,
// newest first. State may be "open", "closed" or "all".
func (c *Client) ListPulls(ctx context.Context, owner, repo, state string, page int) ([]Pull, error) {
	q := url.Values{}
	q.Set("state", state)
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", "100")
	if page > 1 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	var pulls []Pull
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/pulls?%s", owner, repo, q.Encode()), &pulls)
	return pulls, err
}

// ListReviews returns the reviews submitted on one pull request.
func (c *Client) ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	var reviews []Review
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews?per_page=100", owner, repo, number), &reviews)
	return reviews, err
}

// ListComments returns the issue comments on one pull request.
func (c *Client) ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	var comments []Comment
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/issues/%d/comments?per_page=100", owner, repo, number), &comments)
	return comments, err
}

// ListCommits returns the commits on one pull request branch.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	var commits []Commit
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/commits?per_page=100", owner, repo, number), &commits)
	return commits, err
}

// GetContents returns the decoded file content at path on the default
// branch.
func (c *Client) GetContents(ctx context.Context, owner, repo, path string) (string, error) {
	var resp struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), &resp); err != nil {
		return "", err
	}
	if resp.Encoding != "base64" {
		return resp.Content, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("github decode contents %s: %w", path, err)
	}
	return string(raw), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("github read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github get %s: status %d: %s", path, resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("github decode %s: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
