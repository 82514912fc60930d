// Package github implements the GitHubClient and GitHubWriter ports using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.GitHubClient = (*Client)(nil)
	_ driven.GitHubWriter = (*Client)(nil)
)

// Client implements the GitHub ports using the go-github library for REST and
// a hand-rolled JSON POST for the GraphQL surface.
type Client struct {
	gh         *gh.Client
	token      string // Stored for the GraphQL Authorization header.
	graphqlURL string // "https://api.github.com/graphql" in production; derived from baseURL in tests.
	graphql    *http.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// timeout bounds every call, REST and GraphQL, alongside context cancellation.
func NewClient(token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = timeout
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: "https://api.github.com/graphql",
		graphql:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: graphqlU.String(),
		graphql:    httpClient,
	}, nil
}

// ListOpenPullRequests returns the open pull requests whose head is
// owner:branch. It handles pagination automatically even though GitHub rarely
// returns more than a handful of matches for a single head filter.
func (c *Client) ListOpenPullRequests(ctx context.Context, identity model.RepositoryIdentity, branch string) ([]model.PullRequestCandidate, error) {
	opts := &gh.PullRequestListOptions{
		State: "open",
		Head:  identity.Owner + ":" + branch,
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var candidates []model.PullRequestCandidate

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, identity.Owner, identity.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s head %s (page %d): %w", identity.FullName(), opts.Head, opts.Page, err)
		}

		logRateLimit(resp, identity.FullName()+"/pulls", opts.Page, len(prs))

		for _, pr := range prs {
			candidates = append(candidates, model.PullRequestCandidate{
				Number: pr.GetNumber(),
				Title:  pr.GetTitle(),
				Head:   pr.GetHead().GetRef(),
				Base:   pr.GetBase().GetRef(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return candidates, nil
}

// FetchReviewComments retrieves all review comments (inline code comments) for
// a pull request. It follows pagination until exhausted; a partial page set is
// a failure, never a result.
func (c *Client) FetchReviewComments(ctx context.Context, ref model.PullRequestRef) ([]model.Comment, error) {
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var allComments []model.Comment

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, ref.Owner, ref.Name, ref.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing review comments for %s (page %d): %w", ref, opts.Page, err)
		}

		logRateLimit(resp, ref.String()+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			allComments = append(allComments, mapComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allComments == nil {
		allComments = []model.Comment{}
	}

	return allComments, nil
}

// FetchReviewComment retrieves a single review comment by its database ID.
// Returns model.ErrOriginalCommentMissing when GitHub reports 404.
func (c *Client) FetchReviewComment(ctx context.Context, ref model.PullRequestRef, commentID int64) (*model.Comment, error) {
	comment, resp, err := c.gh.PullRequests.GetComment(ctx, ref.Owner, ref.Name, commentID)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, model.ErrOriginalCommentMissing
		}
		return nil, fmt.Errorf("fetching review comment %d on %s: %w", commentID, ref, err)
	}

	logRateLimit(resp, ref.String()+"/comment", 0, 1)

	mapped := mapComment(comment)
	return &mapped, nil
}

// mapComment converts a go-github PullRequestComment to a domain model Comment.
// Thread linkage and first-in-thread classification are attached later by the
// sync service from GraphQL data; the REST payload does not carry them.
func mapComment(c *gh.PullRequestComment) model.Comment {
	return model.Comment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		Path:      c.GetPath(),
		Line:      c.GetLine(),
		Position:  c.GetPosition(),
		DiffHunk:  c.GetDiffHunk(),
		Resolved:  false,
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
