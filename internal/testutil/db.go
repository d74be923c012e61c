// Package testutil provides in-memory stores for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema
// migrated. The pool is pinned to one connection; a second connection
// would see a different, empty database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return open(t, ":memory:", 1)
}

// NewConcurrentDB opens a file-backed SQLite database that conns
// connections use at once, so concurrent callers really race each other.
// Transactions begin IMMEDIATE and wait on the busy timeout for the write
// lock; uniqueness is still decided by the indexes.
func NewConcurrentDB(t testing.TB, conns int) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nano.db")
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(20000)&_txlock=immediate", path)
	return open(t, dsn, conns)
}

func open(t testing.TB, dsn string, conns int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.NewGormLogger(zerolog.Nop(), gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}
