package testutil

import (
	"testing"

	"taskboard-api/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewInMemoryDB creates an in-memory SQLite DB, runs migrations and closes
// it when the test finishes.
func NewInMemoryDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
