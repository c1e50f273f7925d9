package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certpanel/certpanel/integration/database/sqlite"
)

func testConfig(t *testing.T) sqlite.Config {
	t.Helper()
	return sqlite.Config{
		Path:          filepath.Join(t.TempDir(), "nested", "test.sqlite3"),
		BusyTimeout:   time.Second,
		RetryAttempts: 1,
		RetryInterval: 10 * time.Millisecond,
	}
}

func TestConnectCreatesParentDirs(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	db, err := sqlite.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.FileExists(t, cfg.Path)
	assert.NoError(t, db.Ping())
}

func TestConnectEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Connect(context.Background(), sqlite.Config{})
	assert.Error(t, err)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	db, err := sqlite.Connect(context.Background(), testConfig(t))
	require.NoError(t, err)

	check := sqlite.Healthcheck(db)
	assert.NoError(t, check(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, check(context.Background()))
}
