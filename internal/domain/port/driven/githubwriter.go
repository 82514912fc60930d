package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// GitHubWriter defines the driven port for mutating pull request review state.
type GitHubWriter interface {
	// ReplyToComment posts a new review comment replying to commentID and
	// returns the created comment as mapped by the adapter.
	ReplyToComment(ctx context.Context, ref model.PullRequestRef, commentID int64, body string) (*model.Comment, error)

	// ResolveThread marks the review thread with the given GraphQL node ID as
	// resolved. The first return is true only when the response confirms the
	// thread is resolved; GraphQL-level rejections (already resolved, thread
	// gone) report false without an error. Transport failures return an error.
	ResolveThread(ctx context.Context, threadNodeID string) (bool, error)
}
