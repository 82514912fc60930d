package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for states the user must remedy before a sync can succeed.
// They propagate uncaught to the caller and are surfaced as messages, never
// retried automatically.
var (
	// ErrNoWorkspace indicates no working copy path is available or the path
	// is not inside a git repository.
	ErrNoWorkspace = errors.New("no git working copy found")

	// ErrNoRemote indicates the working copy has no remote named "origin".
	ErrNoRemote = errors.New(`no remote named "origin"`)

	// ErrNoBranch indicates HEAD is detached or the branch name cannot be determined.
	ErrNoBranch = errors.New("not on a branch (detached HEAD)")

	// ErrNoPullRequestForBranch indicates no open pull request has the current
	// branch as its head.
	ErrNoPullRequestForBranch = errors.New("no open pull request for current branch")

	// ErrSelectionCancelled indicates the user declined to pick between
	// multiple matching pull requests.
	ErrSelectionCancelled = errors.New("pull request selection cancelled")

	// ErrMissingCredential indicates no GitHub token is configured. Checked
	// before any network call.
	ErrMissingCredential = errors.New("no GitHub token configured")

	// ErrEmptyReply indicates a reply body was empty after trimming. Checked
	// before any network call.
	ErrEmptyReply = errors.New("reply body is empty")

	// ErrOriginalCommentMissing indicates the comment being replied to no
	// longer exists on the remote.
	ErrOriginalCommentMissing = errors.New("original comment no longer exists")
)

// UnparsableRemoteURLError indicates the origin URL matched neither the HTTPS
// nor the SSH remote form.
type UnparsableRemoteURLError struct {
	URL string
}

func (e *UnparsableRemoteURLError) Error() string {
	return fmt.Sprintf("cannot parse remote URL %q: expected https://host/owner/name or user@host:owner/name", e.URL)
}

// FetchFailedError wraps any transport or auth failure during a comment fetch.
// When it is returned, the in-memory model has not been touched.
type FetchFailedError struct {
	Cause error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetching review comments: %v", e.Cause)
}

func (e *FetchFailedError) Unwrap() error {
	return e.Cause
}

// AmbiguousPullRequestsError carries the open pull requests that all have the
// current branch as head, so an external chooser can disambiguate.
type AmbiguousPullRequestsError struct {
	Branch     string
	Candidates []PullRequestCandidate
}

func (e *AmbiguousPullRequestsError) Error() string {
	nums := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		nums = append(nums, fmt.Sprintf("#%d", c.Number))
	}
	return fmt.Sprintf("branch %q matches %d open pull requests (%s)", e.Branch, len(e.Candidates), strings.Join(nums, ", "))
}
