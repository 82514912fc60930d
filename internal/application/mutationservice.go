package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// MutationResult reports both phases of a mutation: whether the remote write
// was applied and whether the mandatory follow-up re-fetch completed. Tests
// assert on both so the mutate-then-refetch ordering is part of the contract,
// not a convention.
type MutationResult struct {
	Applied   bool
	Refetched bool
	Reply     *model.Comment // Set by ReplyToComment when Applied.
}

// MutationService applies review mutations (reply, resolve) against the
// remote. It never touches the in-memory comment collection directly; every
// successful write ends with a full re-fetch through the sync service.
type MutationService struct {
	provider *ClientProvider
	sync     *SyncService
}

// NewMutationService creates a MutationService.
func NewMutationService(provider *ClientProvider, sync *SyncService) *MutationService {
	return &MutationService{
		provider: provider,
		sync:     sync,
	}
}

// ResolveThread resolves the review thread owning commentID. The thread ID is
// looked up fresh from a GraphQL snapshot on every call; it is only attached
// to comments during fetch construction, and resolution may be invoked before
// any fetch has happened in this process.
//
// A comment that belongs to no thread (deleted, already resolved and dropped)
// is a defined outcome: Applied stays false and no error is returned.
func (m *MutationService) ResolveThread(ctx context.Context, ref model.PullRequestRef, commentID int64) (MutationResult, error) {
	client, writer, err := m.provider.Get(ctx)
	if err != nil {
		return MutationResult{}, err
	}

	snapshot, err := client.FetchThreadSnapshot(ctx, ref)
	if err != nil {
		return MutationResult{}, fmt.Errorf("looking up thread for comment %d: %w", commentID, err)
	}

	threadID, ok := snapshot.ThreadFor(commentID)
	if !ok {
		slog.Info("no thread found for comment", "pr", ref.String(), "comment_id", commentID)
		return MutationResult{}, nil
	}

	applied, err := writer.ResolveThread(ctx, threadID)
	if err != nil {
		return MutationResult{}, err
	}
	if !applied {
		return MutationResult{}, nil
	}

	result := MutationResult{Applied: true}
	if _, err := m.sync.Refetch(ctx, ref); err != nil {
		return result, err
	}
	result.Refetched = true
	return result, nil
}

// ReplyToComment posts a reply to an existing review comment. The body is
// validated before any network call; the original comment's existence is
// verified before the write so a reply to a vanished comment fails with
// model.ErrOriginalCommentMissing instead of an opaque API error.
func (m *MutationService) ReplyToComment(ctx context.Context, ref model.PullRequestRef, commentID int64, body string) (MutationResult, error) {
	if strings.TrimSpace(body) == "" {
		return MutationResult{}, model.ErrEmptyReply
	}

	client, writer, err := m.provider.Get(ctx)
	if err != nil {
		return MutationResult{}, err
	}

	if _, err := client.FetchReviewComment(ctx, ref, commentID); err != nil {
		return MutationResult{}, err
	}

	reply, err := writer.ReplyToComment(ctx, ref, commentID, body)
	if err != nil {
		return MutationResult{}, err
	}

	result := MutationResult{Applied: true, Reply: reply}
	if _, err := m.sync.Refetch(ctx, ref); err != nil {
		return result, err
	}
	result.Refetched = true
	return result, nil
}
