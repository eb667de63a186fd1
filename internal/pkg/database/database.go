package database

import "gorm.io/gorm"

var DB *gorm.DB

// GetDB returns the shared GORM handle initialized by SetupDatabase.
func GetDB() *gorm.DB {
	return DB
}

// SetDB swaps the shared handle; used by tests with a sqlmock/sqlite handle.
func SetDB(db *gorm.DB) {
	DB = db
}
