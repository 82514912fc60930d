package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

func newTestMutations(gh *mockGitHub) (*MutationService, *Session) {
	provider := NewClientProvider(&mockCredentialStore{token: "test-token"}, func(string) (driven.GitHubClient, driven.GitHubWriter) {
		return gh, gh
	})
	session := NewSession()
	sync := NewSyncService(&mockInspector{}, provider, session, nil)
	return NewMutationService(provider, sync), session
}

var mutationRef = model.PullRequestRef{Owner: "acme", Name: "widgets", Number: 42}

func TestReplyToComment_EmptyBodyNoNetwork(t *testing.T) {
	gh := &mockGitHub{}
	mutations, _ := newTestMutations(gh)

	_, err := mutations.ReplyToComment(context.Background(), mutationRef, 101, "   ")
	require.ErrorIs(t, err, model.ErrEmptyReply)

	assert.Zero(t, gh.getCalls, "no network call for an empty reply")
	assert.Zero(t, gh.replyCalls)
}

func TestReplyToComment_OriginalMissing(t *testing.T) {
	gh := &mockGitHub{singleCommentErr: model.ErrOriginalCommentMissing}
	mutations, _ := newTestMutations(gh)

	_, err := mutations.ReplyToComment(context.Background(), mutationRef, 101, "looks good")
	require.ErrorIs(t, err, model.ErrOriginalCommentMissing)
	assert.Zero(t, gh.replyCalls, "reply must not be posted when the original is gone")
}

func TestReplyToComment_SuccessTriggersRefetch(t *testing.T) {
	original := &model.Comment{ID: 101, Path: "a.go"}
	reply := &model.Comment{ID: 102, Author: "me", Body: "done", Path: "a.go"}
	gh := &mockGitHub{
		singleComment: original,
		replyResult:   reply,
		snapshot:      model.ThreadSnapshot{},
	}
	mutations, session := newTestMutations(gh)

	result, err := mutations.ReplyToComment(context.Background(), mutationRef, 101, "done")
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.True(t, result.Refetched)
	require.NotNil(t, result.Reply)
	assert.Equal(t, int64(102), result.Reply.ID)

	assert.Equal(t, 1, gh.replyCalls)
	assert.Equal(t, 1, gh.snapshotCalls, "refetch snapshot after the write")

	got, ok := session.PullRequest()
	require.True(t, ok)
	assert.Equal(t, mutationRef, got)
}

func TestReplyToComment_RefetchFailureReportsAppliedWithoutRefetched(t *testing.T) {
	gh := &mockGitHub{
		singleComment: &model.Comment{ID: 101},
		replyResult:   &model.Comment{ID: 102},
		snapshotErr:   errors.New("connection reset"),
	}
	mutations, _ := newTestMutations(gh)

	result, err := mutations.ReplyToComment(context.Background(), mutationRef, 101, "done")
	require.Error(t, err)
	assert.True(t, result.Applied, "the write happened even though the refetch failed")
	assert.False(t, result.Refetched)
}

func TestResolveThread_UnknownCommentReturnsFalseWithoutError(t *testing.T) {
	gh := &mockGitHub{snapshot: model.ThreadSnapshot{}}
	mutations, _ := newTestMutations(gh)

	result, err := mutations.ResolveThread(context.Background(), mutationRef, 999)
	require.NoError(t, err, "missing thread is a defined outcome, not an error")

	assert.False(t, result.Applied)
	assert.Zero(t, gh.resolveCalls, "no mutation without a thread")
}

func TestResolveThread_SuccessTriggersRefetch(t *testing.T) {
	gh := &mockGitHub{
		snapshot: model.ThreadSnapshot{
			101: {ThreadID: "T1", HasPath: true},
		},
		resolveResult: true,
	}
	mutations, session := newTestMutations(gh)

	result, err := mutations.ResolveThread(context.Background(), mutationRef, 101)
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.True(t, result.Refetched)
	assert.Equal(t, 1, gh.resolveCalls)
	// One snapshot for the thread lookup, one for the refetch.
	assert.Equal(t, 2, gh.snapshotCalls)

	_, ok := session.PullRequest()
	assert.True(t, ok)
}

func TestResolveThread_RemoteDeclinesWithoutError(t *testing.T) {
	gh := &mockGitHub{
		snapshot: model.ThreadSnapshot{
			101: {ThreadID: "T1", HasPath: true},
		},
		resolveResult: false,
	}
	mutations, _ := newTestMutations(gh)

	result, err := mutations.ResolveThread(context.Background(), mutationRef, 101)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.False(t, result.Refetched)
}

func TestResolveThread_TransportFaultPropagates(t *testing.T) {
	cause := errors.New("bad gateway")
	gh := &mockGitHub{
		snapshot: model.ThreadSnapshot{
			101: {ThreadID: "T1", HasPath: true},
		},
		resolveErr: cause,
	}
	mutations, _ := newTestMutations(gh)

	_, err := mutations.ResolveThread(context.Background(), mutationRef, 101)
	require.ErrorIs(t, err, cause)
}
