package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/repository"
)

type jobService struct {
	jobs      repository.JobRepository
	promptLog repository.PromptLogRepository
	log       zerolog.Logger
}

func newJobService(jobs repository.JobRepository, promptLog repository.PromptLogRepository, log zerolog.Logger) *jobService {
	return &jobService{
		jobs:      jobs,
		promptLog: promptLog,
		log:       log.With().Str("service", "job").Logger(),
	}
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job, nil
}

func (s *jobService) ListRecent(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error) {
	return s.jobs.ListRecent(ctx, limit, status)
}

func (s *jobService) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	return s.jobs.Statistics(ctx)
}

func (s *jobService) PromptLogs(ctx context.Context, jobID string) ([]models.PromptLogEntry, error) {
	return s.promptLog.ListByJob(ctx, jobID)
}
