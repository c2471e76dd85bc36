package models

import (
	"time"
)

// JobStatus represents the lifecycle state of a generation job
type JobStatus string

const (
	JobStatusStarted   JobStatus = "started"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// GenerationJob is the durable record of one publish-workflow execution.
// Exactly one of CompletedAt (status=completed) or ErrorMessage (status=failed)
// is set; a job still in flight has neither and status=started.
type GenerationJob struct {
	ID           string       `json:"id" db:"id"`
	Topic        string       `json:"topic" db:"topic"`
	Status       JobStatus    `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	ScheduledAt  *time.Time   `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	WPPostID     *int         `json:"wp_post_id,omitempty" db:"wp_post_id"`
	ErrorMessage string       `json:"error_message,omitempty" db:"error_message"`
	Content      *PostContent `json:"content,omitempty" db:"content_json"`
}

// JobStatistics aggregates job counts for reporting.
type JobStatistics struct {
	TotalJobs    int               `json:"total_jobs"`
	StatusCounts map[JobStatus]int `json:"status_counts"`
	TodayJobs    int               `json:"today_jobs"`
	SuccessRate  float64           `json:"success_rate"`
}

// PromptLogEntry is one row of the append-only generation audit log.
type PromptLogEntry struct {
	ID           int64     `json:"id" db:"id"`
	JobID        string    `json:"job_id" db:"job_id"`
	PromptType   string    `json:"prompt_type" db:"prompt_type"`
	PromptText   string    `json:"prompt_text" db:"prompt_text"`
	ResponseText string    `json:"response_text" db:"response_text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
