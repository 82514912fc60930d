package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $pr: Int!, $cursor: String) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: 100, after: $cursor) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					id
					isResolved
					path
					comments(first: 100) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {
							databaseId
							outdated
						}
					}
				}
			}
		}
	}
}`

const threadCommentsQuery = `query($id: ID!, $cursor: String) {
	node(id: $id) {
		... on PullRequestReviewThread {
			comments(first: 100, after: $cursor) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					databaseId
					outdated
				}
			}
		}
	}
}`

const resolveThreadMutation = `mutation($id: ID!) {
	resolveReviewThread(input: {threadId: $id}) {
		thread { id isResolved }
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// threadCommentNode is one review comment as seen by the thread queries.
type threadCommentNode struct {
	DatabaseID int64 `json:"databaseId"`
	Outdated   bool  `json:"outdated"`
}

// commentConnection is a single page of a thread's comments connection.
type commentConnection struct {
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Nodes []threadCommentNode `json:"nodes"`
}

// reviewThreadsResponse represents the expected shape of a GitHub GraphQL
// response for one page of review threads.
type reviewThreadsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []struct {
						ID         string            `json:"id"`
						IsResolved bool              `json:"isResolved"`
						Path       string            `json:"path"`
						Comments   commentConnection `json:"comments"`
					} `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// threadCommentsResponse represents the response shape of the follow-up query
// for a thread whose comments span more than one page.
type threadCommentsResponse struct {
	Data struct {
		Node struct {
			Comments commentConnection `json:"comments"`
		} `json:"node"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchThreadSnapshot queries the GitHub GraphQL API for review thread
// metadata and returns it keyed by review comment database ID. Both the thread
// list and each thread's comments are followed cursor by cursor until
// exhausted; the snapshot is only returned when every page has been read.
func (c *Client) FetchThreadSnapshot(ctx context.Context, ref model.PullRequestRef) (model.ThreadSnapshot, error) {
	snapshot := make(model.ThreadSnapshot)

	var cursor *string
	for {
		page, err := c.fetchThreadPage(ctx, ref, cursor)
		if err != nil {
			return nil, err
		}

		threads := page.Data.Repository.PullRequest.ReviewThreads
		for _, thread := range threads.Nodes {
			meta := model.ThreadCommentMeta{
				ThreadID: thread.ID,
				Resolved: thread.IsResolved,
				HasPath:  thread.Path != "",
			}
			addThreadComments(snapshot, meta, thread.Comments.Nodes)

			// Threads longer than one comments page need follow-up queries;
			// an unclassified comment would vanish from the view.
			comments := thread.Comments
			for comments.PageInfo.HasNextPage {
				next, err := c.fetchThreadComments(ctx, ref, thread.ID, comments.PageInfo.EndCursor)
				if err != nil {
					return nil, err
				}
				addThreadComments(snapshot, meta, next.Nodes)
				comments = *next
			}
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		next := threads.PageInfo.EndCursor
		cursor = &next
	}

	return snapshot, nil
}

func (c *Client) fetchThreadPage(ctx context.Context, ref model.PullRequestRef, cursor *string) (*reviewThreadsResponse, error) {
	variables := map[string]any{
		"owner": ref.Owner,
		"repo":  ref.Name,
		"pr":    ref.Number,
	}
	if cursor != nil {
		variables["cursor"] = *cursor
	}

	var page reviewThreadsResponse
	if err := c.postGraphQL(ctx, reviewThreadsQuery, variables, &page); err != nil {
		return nil, fmt.Errorf("querying review threads for %s: %w", ref, err)
	}
	if len(page.Errors) > 0 {
		return nil, fmt.Errorf("querying review threads for %s: %s", ref, page.Errors[0].Message)
	}
	return &page, nil
}

// addThreadComments records each comment of a thread page under its thread's
// metadata. Comments without a database ID (minimized or deleted) are skipped.
func addThreadComments(snapshot model.ThreadSnapshot, meta model.ThreadCommentMeta, nodes []threadCommentNode) {
	for _, node := range nodes {
		if node.DatabaseID == 0 {
			continue
		}
		meta.Outdated = node.Outdated
		snapshot[node.DatabaseID] = meta
	}
}

// fetchThreadComments fetches one follow-up page of a thread's comments
// connection, addressed by the thread's GraphQL node ID.
func (c *Client) fetchThreadComments(ctx context.Context, ref model.PullRequestRef, threadID, cursor string) (*commentConnection, error) {
	variables := map[string]any{
		"id":     threadID,
		"cursor": cursor,
	}

	var resp threadCommentsResponse
	if err := c.postGraphQL(ctx, threadCommentsQuery, variables, &resp); err != nil {
		return nil, fmt.Errorf("querying comments of thread %s on %s: %w", threadID, ref, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("querying comments of thread %s on %s: %s", threadID, ref, resp.Errors[0].Message)
	}
	return &resp.Data.Node.Comments, nil
}

// resolveThreadResponse represents the response shape for the resolve mutation.
type resolveThreadResponse struct {
	Data struct {
		ResolveReviewThread struct {
			Thread struct {
				ID         string `json:"id"`
				IsResolved bool   `json:"isResolved"`
			} `json:"thread"`
		} `json:"resolveReviewThread"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ResolveThread marks a review thread resolved via the GraphQL API. A GraphQL
// error body (thread gone, already resolved by someone who deleted it, missing
// permission) reports false without an error, since the caller treats those as
// defined non-error outcomes; transport failures return an error.
func (c *Client) ResolveThread(ctx context.Context, threadNodeID string) (bool, error) {
	var resp resolveThreadResponse
	err := c.postGraphQL(ctx, resolveThreadMutation, map[string]any{"id": threadNodeID}, &resp)
	if err != nil {
		return false, fmt.Errorf("resolving thread %s: %w", threadNodeID, err)
	}

	if len(resp.Errors) > 0 {
		slog.Warn("graphql: resolve mutation rejected",
			"thread", threadNodeID,
			"error", resp.Errors[0].Message,
		)
		return false, nil
	}

	return resp.Data.ResolveReviewThread.Thread.IsResolved, nil
}

// postGraphQL sends a GraphQL request and decodes the response into out.
// It fails on marshaling problems, transport errors, and non-200 statuses;
// GraphQL-level errors are left in out for the caller to interpret.
func (c *Client) postGraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.token == "" {
		return model.ErrMissingCredential
	}

	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshaling graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.graphql.Do(httpReq)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request: HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}

	return nil
}
