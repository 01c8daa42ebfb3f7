package helpers

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"studyfunnel_backend/database"
	"studyfunnel_backend/internal/config"
	"studyfunnel_backend/internal/logger"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewTestDB opens a private in-memory sqlite database with every table migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
