package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// ValidateToken verifies that the given GitHub personal access token is valid
// and returns the authenticated username on success. It runs before any token
// is stored, so it builds its own one-shot client rather than going through
// the cached transport stack.
func ValidateToken(ctx context.Context, token string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	client := gh.NewClient(httpClient).WithAuthToken(token)
	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}
	return user.GetLogin(), nil
}

// ReplyToComment posts a new review comment replying to commentID.
// When in_reply_to is set, GitHub ignores all fields except body, so no
// path or position is sent.
func (c *Client) ReplyToComment(ctx context.Context, ref model.PullRequestRef, commentID int64, body string) (*model.Comment, error) {
	created, resp, err := c.gh.PullRequests.CreateCommentInReplyTo(ctx, ref.Owner, ref.Name, ref.Number, body, commentID)
	if err != nil {
		return nil, fmt.Errorf("replying to comment %d on %s: %w", commentID, ref, err)
	}

	logRateLimit(resp, ref.String()+"/reply-comment", 0, 1)

	mapped := mapComment(created)
	return &mapped, nil
}
