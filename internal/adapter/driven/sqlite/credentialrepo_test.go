package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/domain/port/driven"
)

func TestCredentialRepo_RoundTrip(t *testing.T) {
	repo := NewCredentialRepo(newTestDB(t), testKey())
	ctx := context.Background()

	require.NoError(t, repo.SetToken(ctx, "ghp_abc123"))

	token, err := repo.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc123", token)
}

func TestCredentialRepo_MissingTokenIsEmpty(t *testing.T) {
	repo := NewCredentialRepo(newTestDB(t), testKey())

	token, err := repo.GetToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCredentialRepo_OverwriteReplacesToken(t *testing.T) {
	repo := NewCredentialRepo(newTestDB(t), testKey())
	ctx := context.Background()

	require.NoError(t, repo.SetToken(ctx, "ghp_old"))
	require.NoError(t, repo.SetToken(ctx, "ghp_new"))

	token, err := repo.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_new", token)

	// INSERT OR REPLACE must leave a single row per service.
	var count int
	require.NoError(t, repo.db.Reader.QueryRow(
		`SELECT COUNT(*) FROM credentials WHERE service = ?`, githubTokenService,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestCredentialRepo_NilKeyRejectsOperations(t *testing.T) {
	repo := NewCredentialRepo(newTestDB(t), nil)
	ctx := context.Background()

	err := repo.SetToken(ctx, "ghp_abc123")
	require.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.GetToken(ctx)
	require.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestCredentialRepo_StoredValueIsNotPlaintext(t *testing.T) {
	repo := NewCredentialRepo(newTestDB(t), testKey())
	ctx := context.Background()

	require.NoError(t, repo.SetToken(ctx, "ghp_abc123"))

	var stored string
	require.NoError(t, repo.db.Reader.QueryRow(
		`SELECT value FROM credentials WHERE service = ?`, githubTokenService,
	).Scan(&stored))
	assert.NotContains(t, stored, "ghp_abc123")
}

func TestCredentialRepo_WrongKeyFailsDecrypt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewCredentialRepo(db, testKey()).SetToken(ctx, "ghp_abc123"))

	otherKey := make([]byte, 32)
	_, err := NewCredentialRepo(db, otherKey).GetToken(ctx)
	require.Error(t, err)
}
