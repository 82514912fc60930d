package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghAdapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/github"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"test-token",
	)
	require.NoError(t, err)

	return client, server
}

// commentJSON is a helper struct for building GitHub review comment responses.
type commentJSON struct {
	ID       int64    `json:"id"`
	User     userJSON `json:"user"`
	Body     string   `json:"body"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Position int      `json:"position,omitempty"`
	DiffHunk string   `json:"diff_hunk,omitempty"`
	Created  string   `json:"created_at"`
	Updated  string   `json:"updated_at"`
}

type userJSON struct {
	Login string `json:"login"`
}

type prJSON struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Head   refJSON  `json:"head"`
	Base   refJSON  `json:"base"`
	User   userJSON `json:"user"`
}

type refJSON struct {
	Ref string `json:"ref"`
}

var testRef = model.PullRequestRef{Owner: "acme", Name: "widgets", Number: 42}

func TestListOpenPullRequests_FiltersByHead(t *testing.T) {
	var gotState, gotHead string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("state")
		gotHead = r.URL.Query().Get("head")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]prJSON{
			{Number: 42, Title: "Add feature X", Head: refJSON{Ref: "feature/x"}, Base: refJSON{Ref: "main"}, User: userJSON{Login: "alice"}},
		})
	})

	client, _ := newTestClient(t, handler)
	identity := model.RepositoryIdentity{Owner: "acme", Name: "widgets"}

	candidates, err := client.ListOpenPullRequests(context.Background(), identity, "feature/x")
	require.NoError(t, err)

	assert.Equal(t, "open", gotState)
	assert.Equal(t, "acme:feature/x", gotHead)

	require.Len(t, candidates, 1)
	assert.Equal(t, 42, candidates[0].Number)
	assert.Equal(t, "Add feature X", candidates[0].Title)
	assert.Equal(t, "feature/x", candidates[0].Head)
	assert.Equal(t, "main", candidates[0].Base)
}

func TestFetchReviewComments_SinglePage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]commentJSON{
			{
				ID:       101,
				User:     userJSON{Login: "alice"},
				Body:     "use errors.Is here",
				Path:     "internal/app/run.go",
				Line:     14,
				DiffHunk: "@@ -10,4 +10,6 @@",
				Created:  "2026-01-01T10:00:00Z",
				Updated:  "2026-01-01T10:00:00Z",
			},
		})
	})

	client, _ := newTestClient(t, handler)
	comments, err := client.FetchReviewComments(context.Background(), testRef)
	require.NoError(t, err)

	require.Len(t, comments, 1)
	c := comments[0]
	assert.Equal(t, int64(101), c.ID)
	assert.Equal(t, "alice", c.Author)
	assert.Equal(t, "use errors.Is here", c.Body)
	assert.Equal(t, "internal/app/run.go", c.Path)
	assert.Equal(t, 14, c.Line)
	assert.Equal(t, "@@ -10,4 +10,6 @@", c.DiffHunk)
	assert.False(t, c.Resolved)
	assert.Empty(t, c.ThreadID, "REST payload carries no thread linkage")
}

func TestFetchReviewComments_AllPagesFollowed(t *testing.T) {
	// Three pages of one comment each; the fetcher must return all three
	// regardless of page count.
	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=2>; rel="next"`, server.URL, r.URL.Path))
			json.NewEncoder(w).Encode([]commentJSON{{ID: 1, Created: "2026-01-01T10:00:00Z", Updated: "2026-01-01T10:00:00Z"}})
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=3>; rel="next"`, server.URL, r.URL.Path))
			json.NewEncoder(w).Encode([]commentJSON{{ID: 2, Created: "2026-01-01T11:00:00Z", Updated: "2026-01-01T11:00:00Z"}})
		default:
			json.NewEncoder(w).Encode([]commentJSON{{ID: 3, Created: "2026-01-01T12:00:00Z", Updated: "2026-01-01T12:00:00Z"}})
		}
	})

	client, srv := newTestClient(t, handler)
	server = srv

	comments, err := client.FetchReviewComments(context.Background(), testRef)
	require.NoError(t, err)

	require.Len(t, comments, 3)
	assert.Equal(t, int64(1), comments[0].ID)
	assert.Equal(t, int64(2), comments[1].ID)
	assert.Equal(t, int64(3), comments[2].ID)
}

func TestFetchReviewComments_EmptyResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]commentJSON{})
	})

	client, _ := newTestClient(t, handler)
	comments, err := client.FetchReviewComments(context.Background(), testRef)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestFetchReviewComments_ServerErrorFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchReviewComments(context.Background(), testRef)
	require.Error(t, err)
}

func TestFetchReviewComment_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchReviewComment(context.Background(), testRef, 999)
	require.ErrorIs(t, err, model.ErrOriginalCommentMissing)
}

func TestFetchReviewComment_Found(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(commentJSON{
			ID:      101,
			User:    userJSON{Login: "alice"},
			Body:    "original",
			Path:    "a.go",
			Line:    3,
			Created: "2026-01-01T10:00:00Z",
			Updated: "2026-01-01T10:00:00Z",
		})
	})

	client, _ := newTestClient(t, handler)
	comment, err := client.FetchReviewComment(context.Background(), testRef, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(101), comment.ID)
	assert.Equal(t, "a.go", comment.Path)
}

func TestReplyToComment_MapsCreatedComment(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(commentJSON{
			ID:      202,
			User:    userJSON{Login: "me"},
			Body:    "will fix",
			Path:    "a.go",
			Line:    3,
			Created: "2026-01-05T10:00:00Z",
			Updated: "2026-01-05T10:00:00Z",
		})
	})

	client, _ := newTestClient(t, handler)
	reply, err := client.ReplyToComment(context.Background(), testRef, 101, "will fix")
	require.NoError(t, err)

	assert.Equal(t, int64(202), reply.ID)
	assert.Equal(t, "me", reply.Author)
	assert.Equal(t, "will fix", reply.Body)
}

func TestReplyToComment_ServerErrorFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ReplyToComment(context.Background(), testRef, 101, "will fix")
	require.Error(t, err)
}
