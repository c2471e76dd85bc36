package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/wp-autopub/internal/database"
	"github.com/wp-autopub/internal/models"
)

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

// Save upserts the job by id with full-overwrite semantics.
func (r *jobRepo) Save(ctx context.Context, job *models.GenerationJob) error {
	var contentJSON sql.NullString
	if job.Content != nil {
		raw, err := json.Marshal(job.Content)
		if err != nil {
			return fmt.Errorf("marshal job content: %w", err)
		}
		contentJSON = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO generation_jobs (id, topic, status, created_at, scheduled_at,
			completed_at, wp_post_id, error_message, content_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			topic = EXCLUDED.topic,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			scheduled_at = EXCLUDED.scheduled_at,
			completed_at = EXCLUDED.completed_at,
			wp_post_id = EXCLUDED.wp_post_id,
			error_message = EXCLUDED.error_message,
			content_json = EXCLUDED.content_json
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Topic, job.Status, job.CreatedAt, job.ScheduledAt,
		job.CompletedAt, nullInt(job.WPPostID), nullString(job.ErrorMessage), contentJSON,
	)
	if err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

// GetByID retrieves a job by ID; returns nil when not found
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	query := `
		SELECT id, topic, status, created_at, scheduled_at, completed_at,
			wp_post_id, error_message, content_json
		FROM generation_jobs WHERE id = $1
	`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// ListRecent retrieves the newest jobs first, optionally filtered to one status
func (r *jobRepo) ListRecent(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error) {
	builder := sq.Select("id", "topic", "status", "created_at", "scheduled_at",
		"completed_at", "wp_post_id", "error_message", "content_json").
		From("generation_jobs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// Statistics aggregates job counts; success rate is 0 when no jobs exist
func (r *jobRepo) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	stats := &models.JobStatistics{
		StatusCounts: make(map[models.JobStatus]int),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM generation_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count jobs by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
		stats.TotalJobs += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generation_jobs WHERE created_at >= $1`,
		today,
	).Scan(&stats.TodayJobs)
	if err != nil {
		return nil, fmt.Errorf("count today's jobs: %w", err)
	}

	if stats.TotalJobs > 0 {
		completed := stats.StatusCounts[models.JobStatusCompleted]
		stats.SuccessRate = float64(completed) / float64(stats.TotalJobs) * 100
	}

	return stats, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.GenerationJob, error) {
	var job models.GenerationJob
	var scheduledAt, completedAt sql.NullTime
	var wpPostID sql.NullInt64
	var errorMessage, contentJSON sql.NullString

	err := row.Scan(
		&job.ID, &job.Topic, &job.Status, &job.CreatedAt, &scheduledAt,
		&completedAt, &wpPostID, &errorMessage, &contentJSON,
	)
	if err != nil {
		return nil, err
	}

	if scheduledAt.Valid {
		job.ScheduledAt = &scheduledAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if wpPostID.Valid {
		id := int(wpPostID.Int64)
		job.WPPostID = &id
	}
	job.ErrorMessage = errorMessage.String
	if contentJSON.Valid && contentJSON.String != "" {
		var content models.PostContent
		if err := json.Unmarshal([]byte(contentJSON.String), &content); err != nil {
			return nil, fmt.Errorf("unmarshal job content: %w", err)
		}
		job.Content = &content
	}

	return &job, nil
}

// helpers to convert zero values to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
