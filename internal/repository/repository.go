package repository

import (
	"context"

	"github.com/wp-autopub/internal/database"
	"github.com/wp-autopub/internal/models"
)

// JobRepository defines the interface for generation job persistence
type JobRepository interface {
	Save(ctx context.Context, job *models.GenerationJob) error
	GetByID(ctx context.Context, id string) (*models.GenerationJob, error)
	ListRecent(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error)
	Statistics(ctx context.Context) (*models.JobStatistics, error)
}

// PromptLogRepository defines the interface for the append-only generation
// audit log. Entries are never updated or read back by the publish workflow.
type PromptLogRepository interface {
	Append(ctx context.Context, entry *models.PromptLogEntry) error
	ListByJob(ctx context.Context, jobID string) ([]models.PromptLogEntry, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Job       JobRepository
	PromptLog PromptLogRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Job:       NewJobRepo(db),
		PromptLog: NewPromptLogRepo(db),
	}
}
