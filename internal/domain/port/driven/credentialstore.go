package driven

import (
	"context"
	"errors"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// REVIEWDECK_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set REVIEWDECK_SECRET_KEY")

// CredentialStore defines the driven port for token persistence. The adapter
// layer is responsible for encryption at rest; this interface operates on
// plaintext values at the domain boundary.
type CredentialStore interface {
	// GetToken retrieves the stored GitHub token.
	// Returns ("", nil) if no token has been stored.
	GetToken(ctx context.Context) (string, error)

	// SetToken stores or replaces the GitHub token.
	SetToken(ctx context.Context, token string) error
}
