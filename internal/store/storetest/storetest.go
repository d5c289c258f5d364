// Package storetest 为测试提供已迁移的临时 sqlite 数据库
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/eginner01/rFBA-sub002/internal/store/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB 在 t.TempDir() 下创建数据库并执行全部迁移，测试结束时关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := fbaconf.DatabaseConfig{
		Type:         store.DialectSQLite,
		Path:         filepath.Join(t.TempDir(), "fba_test.db"),
		MaxOpenConns: 4,
	}
	db, err := store.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })

	_, err = migrate.Run(context.Background(), db, migrate.All)
	require.NoError(t, err)
	return db
}
