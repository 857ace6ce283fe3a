package dbhelper

import (
	"fmt"

	"gorm.io/gorm"
)

// SetupCleaner returns a func that wipes the given tables, for integration tests.
func SetupCleaner(db *gorm.DB, tables ...interface{}) func() {
	return func() {
		for _, table := range tables {
			db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table)
		}
	}
}

func Migrate(db *gorm.DB, model interface{}) error {
	if err := db.AutoMigrate(model); err != nil {
		return fmt.Errorf("migrate %T: %w", model, err)
	}
	return nil
}
