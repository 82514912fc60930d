package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request and review
// comment data from the GitHub API.
type GitHubClient interface {
	// ListOpenPullRequests returns the open pull requests whose head branch is
	// owner:branch. Pagination is handled inside the adapter; every page is read.
	ListOpenPullRequests(ctx context.Context, identity model.RepositoryIdentity, branch string) ([]model.PullRequestCandidate, error)

	// FetchThreadSnapshot queries the GraphQL API for review thread metadata:
	// for every comment, its thread node ID, the thread's resolved state,
	// whether the comment is outdated, and whether the thread has a file path.
	FetchThreadSnapshot(ctx context.Context, ref model.PullRequestRef) (model.ThreadSnapshot, error)

	// FetchReviewComments returns every review comment on the pull request,
	// following pagination until exhausted. Comments come back unclassified:
	// no ThreadID, no IsFirstInThread, Resolved false.
	FetchReviewComments(ctx context.Context, ref model.PullRequestRef) ([]model.Comment, error)

	// FetchReviewComment returns a single review comment by its database ID.
	// Returns model.ErrOriginalCommentMissing if the comment no longer exists.
	FetchReviewComment(ctx context.Context, ref model.PullRequestRef, commentID int64) (*model.Comment, error)
}
