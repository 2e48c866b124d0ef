package Models

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database and runs migrations. SQLite is the default;
// set DB_DSN to point at a MySQL instance instead. A connection failure is
// fatal for the caller: the server must not run half-configured.
func Connect(databasePath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		if databasePath == "" {
			databasePath = "workspace.db"
		}
		db, err = gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&WorkspaceData{}, &MemberToken{}); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// Make sure the single document exists before the first poll arrives.
	if _, err := FetchDocument(db); err != nil {
		return nil, err
	}

	log.Println("Database connected and workspace document ready")
	return db, nil
}
