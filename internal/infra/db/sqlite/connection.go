package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"telegram-uid-keeper/internal/domain/model"
)

// Open opens (or creates) the SQLite database at path and migrates the
// schema. The returned *gorm.DB is safe for concurrent use; SQLite itself
// serializes writes, which is all the write coordination this bot needs.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Wait out writer locks instead of failing immediately.
	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := db.AutoMigrate(&model.UIDRecord{}, &model.ChatSettings{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}
