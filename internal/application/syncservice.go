package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

// Chooser picks one pull request number from multiple candidates matching the
// current branch. Returning 0 declines the selection.
type Chooser func(branch string, candidates []model.PullRequestCandidate) (int, error)

// SyncService drives the full synchronization cycle: locate the working copy,
// resolve the pull request for its branch, fetch and classify review
// comments, and install the rebuilt view in the session.
type SyncService struct {
	inspector driven.RepoInspector
	provider  *ClientProvider
	session   *Session
	choose    Chooser
}

// NewSyncService creates a SyncService. choose may be nil, in which case an
// ambiguous branch fails with model.ErrSelectionCancelled.
func NewSyncService(inspector driven.RepoInspector, provider *ClientProvider, session *Session, choose Chooser) *SyncService {
	return &SyncService{
		inspector: inspector,
		provider:  provider,
		session:   session,
		choose:    choose,
	}
}

// Session returns the session this service installs fetched views into.
func (s *SyncService) Session() *Session {
	return s.session
}

// Sync runs the full cycle for the working copy at workdir and returns the
// rebuilt view. When no open pull request exists for the current branch the
// session is cleared and model.ErrNoPullRequestForBranch is returned; callers
// treat that as an empty state, not a fault.
func (s *SyncService) Sync(ctx context.Context, workdir string) (*ThreadView, error) {
	ref, err := s.Resolve(ctx, workdir)
	if err != nil {
		return nil, err
	}
	return s.Refetch(ctx, ref)
}

// Resolve locates the working copy and resolves its branch to an open pull
// request without fetching comments. Mutation commands use this so a reply or
// resolve does not require a prior fetch in the same process.
func (s *SyncService) Resolve(ctx context.Context, workdir string) (model.PullRequestRef, error) {
	identity, branch, err := s.inspector.Locate(workdir)
	if err != nil {
		return model.PullRequestRef{}, err
	}

	client, _, err := s.provider.Get(ctx)
	if err != nil {
		return model.PullRequestRef{}, err
	}

	number, err := s.resolvePullRequest(ctx, client, identity, branch)
	if err != nil {
		if errors.Is(err, model.ErrNoPullRequestForBranch) {
			s.session.Clear()
		}
		return model.PullRequestRef{}, err
	}

	ref := model.PullRequestRef{Owner: identity.Owner, Name: identity.Name, Number: number}
	slog.Info("pull request resolved", "pr", ref.String(), "branch", branch)
	return ref, nil
}

// Refetch rebuilds the comment collection for an already-resolved pull
// request and installs it in the session. Mutation operations call this after
// every successful write; the view is replaced atomically or not at all.
func (s *SyncService) Refetch(ctx context.Context, ref model.PullRequestRef) (*ThreadView, error) {
	client, _, err := s.provider.Get(ctx)
	if err != nil {
		return nil, err
	}

	comments, err := fetchDisplayableComments(ctx, client, ref)
	if err != nil {
		return nil, err
	}

	view := BuildView(comments)
	s.session.Replace(ref, view)

	slog.Info("comment view rebuilt", "pr", ref.String(), "comments", view.Len())
	return view, nil
}

// resolvePullRequest finds the open pull request whose head branch is the
// current branch. Each call re-queries; resolution results are never cached.
func (s *SyncService) resolvePullRequest(ctx context.Context, client driven.GitHubClient, identity model.RepositoryIdentity, branch string) (int, error) {
	candidates, err := client.ListOpenPullRequests(ctx, identity, branch)
	if err != nil {
		return 0, fmt.Errorf("resolving pull request for branch %q: %w", branch, err)
	}

	switch len(candidates) {
	case 0:
		return 0, model.ErrNoPullRequestForBranch
	case 1:
		return candidates[0].Number, nil
	}

	amb := &model.AmbiguousPullRequestsError{Branch: branch, Candidates: candidates}
	if s.choose == nil {
		return 0, fmt.Errorf("%w: %s", model.ErrSelectionCancelled, amb.Error())
	}

	number, err := s.choose(branch, candidates)
	if err != nil {
		return 0, err
	}
	if number == 0 {
		return 0, model.ErrSelectionCancelled
	}
	return number, nil
}

// fetchDisplayableComments runs the ordered fetch pipeline:
//
//  1. GraphQL thread snapshot; if nothing is displayable, stop before any
//     REST call. The empty result is the contract, not an optimization.
//  2. All REST review comment pages.
//  3. Keep only comments in the displayable set.
//  4. Attach thread linkage and first-in-thread classification.
//  5. Resolved is false on every survivor by construction of step 1.
//
// Transport failures at any step come back as *model.FetchFailedError and
// leave the session untouched.
func fetchDisplayableComments(ctx context.Context, client driven.GitHubClient, ref model.PullRequestRef) ([]model.Comment, error) {
	snapshot, err := client.FetchThreadSnapshot(ctx, ref)
	if err != nil {
		if errors.Is(err, model.ErrMissingCredential) {
			return nil, err
		}
		return nil, &model.FetchFailedError{Cause: err}
	}

	if !snapshot.HasDisplayable() {
		slog.Debug("no displayable comments", "pr", ref.String())
		return []model.Comment{}, nil
	}

	raw, err := client.FetchReviewComments(ctx, ref)
	if err != nil {
		return nil, &model.FetchFailedError{Cause: err}
	}

	kept := make([]model.Comment, 0, len(raw))
	for _, c := range raw {
		if !snapshot.Displayable(c.ID) {
			continue
		}
		if threadID, ok := snapshot.ThreadFor(c.ID); ok {
			c.ThreadID = threadID
		}
		c.Resolved = false
		kept = append(kept, c)
	}

	markFirstInThread(kept)
	return kept, nil
}

// markFirstInThread sets IsFirstInThread on exactly one comment per thread:
// the one with the earliest CreatedAt, ties broken by the lower ID. Comments
// without thread linkage stand alone and are their own first.
func markFirstInThread(comments []model.Comment) {
	firstIdx := make(map[string]int)
	for i, c := range comments {
		if c.ThreadID == "" {
			comments[i].IsFirstInThread = true
			continue
		}
		j, ok := firstIdx[c.ThreadID]
		if !ok {
			firstIdx[c.ThreadID] = i
			continue
		}
		earlier := c.CreatedAt.Before(comments[j].CreatedAt) ||
			(c.CreatedAt.Equal(comments[j].CreatedAt) && c.ID < comments[j].ID)
		if earlier {
			firstIdx[c.ThreadID] = i
		}
	}
	for _, i := range firstIdx {
		comments[i].IsFirstInThread = true
	}
}
