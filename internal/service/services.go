package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/generator"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/quality"
	"github.com/wp-autopub/internal/repository"
	"github.com/wp-autopub/internal/wordpress"
)

// Sentinel errors used by the HTTP and CLI boundaries to classify failures.
var (
	ErrJobNotFound     = errors.New("job not found")
	ErrJobNotRetryable = errors.New("only failed jobs can be retried")
)

// PublishRequest carries the inputs of one publish workflow run.
type PublishRequest struct {
	Topic         string
	Schedule      models.ScheduleInfo
	Categories    []string
	Tags          []string
	GenerateImage bool
}

// BlogService defines the publication workflow operations
type BlogService interface {
	Publish(ctx context.Context, req PublishRequest) (*models.PublicationResult, error)
	GenerateOnly(ctx context.Context, topic string) (*models.PostContent, error)
	Retry(ctx context.Context, jobID string) (*models.PublicationResult, error)
}

// JobService defines job inspection operations
type JobService interface {
	GetJob(ctx context.Context, id string) (*models.GenerationJob, error)
	ListRecent(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error)
	Statistics(ctx context.Context) (*models.JobStatistics, error)
	PromptLogs(ctx context.Context, jobID string) ([]models.PromptLogEntry, error)
}

// Services holds all service interfaces
type Services struct {
	Blog BlogService
	Job  JobService
}

// Collaborators bundles the external-system boundaries the workflow drives.
type Collaborators struct {
	WordPress wordpress.Client
	Content   generator.ContentGenerator
	Image     generator.ImageGenerator
	Quality   quality.QualityChecker
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, collab Collaborators, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Blog: newBlogService(repos.Job, collab, cfg.WordPress.BaseURL, log),
		Job:  newJobService(repos.Job, repos.PromptLog, log),
	}
}
