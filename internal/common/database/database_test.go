// Package database 数据库模块单元测试
package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_Memory(t *testing.T) {
	db, err := OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shop.db")
	db, err := OpenSQLite(path, true)
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER)").Error)
	require.NoError(t, Close(db))
	assert.FileExists(t, path)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestGormConfig_LogLevel(t *testing.T) {
	assert.NotNil(t, gormConfig(true, 100).Logger)
	assert.True(t, gormConfig(false, 100).DisableForeignKeyConstraintWhenMigrating)
}
