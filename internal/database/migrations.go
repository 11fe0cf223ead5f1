package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns string
}

var indexes = []indexSpec{
	// Issue list and calendar lookups
	{"issues", "idx_issues_user_date", "user_id, date"},
	{"issues", "idx_issues_created_at", "created_at"},

	// Child rows are always read by issue
	{"issue_links", "idx_issue_links_issue_id", "issue_id"},
	{"issue_files", "idx_issue_files_issue_id", "issue_id"},
}

// AddIndexes adds query indexes that are not expressed in model tags.
// Existing indexes are left alone, so it is safe to run on every start.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
