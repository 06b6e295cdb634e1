package database

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/student-planner-api/internal/models"
	"gorm.io/gorm"
)

type taskIndex struct {
	name    string
	columns []string
}

// taskIndexes back the owner-scoped list and the status counts
var taskIndexes = []taskIndex{
	{"idx_tasks_owner_created", []string{"owner_id", "created_at"}},
	{"idx_tasks_owner_status", []string{"owner_id", "status"}},
}

// AddIndexes adds the task indexes that AutoMigrate does not derive from struct tags
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range taskIndexes {
		if migrator.HasIndex(&models.Task{}, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithField("index", idx.name).Info("Created index")
	}

	return nil
}

