package database

import (
	"testing"

	"taskboard-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndSharesConnection(t *testing.T) {
	db, err := Open(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, m := range models.All() {
		require.True(t, db.Migrator().HasTable(m))
	}

	require.NoError(t, db.Create(&models.Board{Name: "Sprint1"}).Error)

	var count int64
	require.NoError(t, db.Model(&models.Board{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestOpen_IsolatedPerProcessStore(t *testing.T) {
	first, err := Open(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(first) })
	second, err := Open(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(second) })

	require.NoError(t, first.Create(&models.Board{Name: "only here"}).Error)

	var count int64
	require.NoError(t, second.Model(&models.Board{}).Count(&count).Error)
	require.Zero(t, count)
}
