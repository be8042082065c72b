package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/memovault/memovault/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var counter int64

// NewDSN returns a DSN for a fresh in-memory SQLite database. The
// shared-cache mode lets several connections opened with the same DSN see
// one database.
func NewDSN() string {
	return fmt.Sprintf("file:memovault_test_%d?mode=memory&cache=shared", atomic.AddInt64(&counter, 1))
}

// Open connects to dsn with the full schema migrated and closes the
// connection when the test finishes.
func Open(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, db.Migrate(conn))

	return conn
}

// New opens a fresh in-memory store. Every call gets its own database.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	return Open(t, NewDSN())
}
