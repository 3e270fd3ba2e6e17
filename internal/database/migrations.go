package database

import (
	"fmt"
	"log"

	"github.com/taskforge/task-assignment-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes creates indexes on the columns the hot queries filter and sort
// by: task lookups by assignee and status, comment listing by creation time,
// invitation lookups by email and expiry. Uses the migrator API so it works
// on every supported driver.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		field string
	}{
		{&models.Task{}, "AssignedToID"},
		{&models.Task{}, "Status"},
		{&models.Task{}, "EndDate"},
		{&models.Comment{}, "TaskID"},
		{&models.Comment{}, "CreatedAt"},
		{&models.Invitation{}, "Email"},
		{&models.Invitation{}, "ExpiresAt"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.field) {
			continue
		}
		if err := db.Migrator().CreateIndex(idx.model, idx.field); err != nil {
			return fmt.Errorf("failed to create index on %T.%s: %w", idx.model, idx.field, err)
		}
		log.Printf("Created index on %T(%s)", idx.model, idx.field)
	}

	return nil
}
