package data

import (
	"log"

	"github.com/eipsight/eipsight/src/insight/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates or updates the schema for all owned tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Setting{},
		&types.Repo{},
		&types.Proposal{},
		&types.PullRequest{},
		&types.EditorRole{},
		&types.ProposalEvent{},
	)
}
