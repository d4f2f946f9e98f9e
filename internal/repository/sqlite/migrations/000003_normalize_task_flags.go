package migrations

import (
	"database/sql"
	"fmt"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_task_flags, Down_000003_normalize_task_flags)
}

// Up_000003_normalize_task_flags clears completion, rating and deadline data
// that contradicts a category's task flags. Rows imported from older versions
// could carry a rating on a plain category or a completion without a rating.
func Up_000003_normalize_task_flags(tx *sql.Tx) error {
	statements := []struct {
		name  string
		query string
	}{
		{
			name:  "plain categories",
			query: `UPDATE categories SET is_completed = 0, rating = 0, deadline = NULL WHERE is_task = 0`,
		},
		{
			name:  "out of range ratings",
			query: `UPDATE categories SET rating = 0 WHERE rating < 0 OR rating > 3`,
		},
		{
			name:  "unrated completions",
			query: `UPDATE categories SET is_completed = 0 WHERE is_task = 1 AND rating = 0`,
		},
		{
			name:  "ratings on open tasks",
			query: `UPDATE categories SET rating = 0 WHERE is_task = 1 AND is_completed = 0`,
		},
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to normalize %s: %w", stmt.name, err)
		}
	}
	return nil
}

// Down_000003_normalize_task_flags is a no-op: cleared values cannot be restored.
func Down_000003_normalize_task_flags(tx *sql.Tx) error {
	return nil
}
