package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wp-autopub/internal/database"
	"github.com/wp-autopub/internal/models"
)

// promptLogRepo is the concrete implementation of PromptLogRepository
type promptLogRepo struct {
	db *database.DB
}

// NewPromptLogRepo creates a new prompt log repository
func NewPromptLogRepo(db *database.DB) PromptLogRepository {
	return &promptLogRepo{db: db}
}

// Append inserts one audit row; rows are never updated afterwards
func (r *promptLogRepo) Append(ctx context.Context, entry *models.PromptLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO prompts_log (job_id, prompt_type, prompt_text, response_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.JobID, entry.PromptType, entry.PromptText, entry.ResponseText, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append prompt log: %w", err)
	}
	return nil
}

// ListByJob returns the audit trail for one job in call order
func (r *promptLogRepo) ListByJob(ctx context.Context, jobID string) ([]models.PromptLogEntry, error) {
	query := `
		SELECT id, job_id, prompt_type, prompt_text, response_text, created_at
		FROM prompts_log
		WHERE job_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list prompt logs: %w", err)
	}
	defer rows.Close()

	var entries []models.PromptLogEntry
	for rows.Next() {
		var e models.PromptLogEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.PromptType, &e.PromptText, &e.ResponseText, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt log row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
