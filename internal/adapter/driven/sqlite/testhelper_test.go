package sqlite

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDB creates a migrated SQLite database in a temp directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer))

	return db
}

// testKey derives a deterministic 32-byte AES key for tests.
func testKey() []byte {
	sum := sha256.Sum256([]byte("test-secret"))
	return sum[:]
}
