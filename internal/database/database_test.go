package database

import (
	"testing"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteUsesSingleConnection(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "sqlite", DatabaseURL: "file:" + t.Name() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, Migrate(db))
	assert.NoError(t, Ping(db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mysql"})
	assert.ErrorContains(t, err, "unsupported driver")
}
