package mocks

import (
	"context"
	"sort"

	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/repository"
)

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	Jobs      map[string]*models.GenerationJob
	SaveError error
	SaveCalls int
}

// Verify interface compliance
var _ repository.JobRepository = (*MockJobRepository)(nil)

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs: make(map[string]*models.GenerationJob),
	}
}

func (m *MockJobRepository) Save(ctx context.Context, job *models.GenerationJob) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	copied := *job
	m.Jobs[job.ID] = &copied
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	return m.Jobs[id], nil
}

func (m *MockJobRepository) ListRecent(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error) {
	jobs := make([]*models.GenerationJob, 0, len(m.Jobs))
	for _, job := range m.Jobs {
		if status != "" && job.Status != status {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *MockJobRepository) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	stats := &models.JobStatistics{
		TotalJobs:    len(m.Jobs),
		StatusCounts: make(map[models.JobStatus]int),
	}
	for _, job := range m.Jobs {
		stats.StatusCounts[job.Status]++
	}
	if stats.TotalJobs > 0 {
		stats.SuccessRate = float64(stats.StatusCounts[models.JobStatusCompleted]) / float64(stats.TotalJobs) * 100
	}
	return stats, nil
}

// MockPromptLogRepository is a mock implementation of PromptLogRepository
type MockPromptLogRepository struct {
	Entries     []models.PromptLogEntry
	AppendError error
}

var _ repository.PromptLogRepository = (*MockPromptLogRepository)(nil)

func NewMockPromptLogRepository() *MockPromptLogRepository {
	return &MockPromptLogRepository{Entries: make([]models.PromptLogEntry, 0)}
}

func (m *MockPromptLogRepository) Append(ctx context.Context, entry *models.PromptLogEntry) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.Entries = append(m.Entries, *entry)
	return nil
}

func (m *MockPromptLogRepository) ListByJob(ctx context.Context, jobID string) ([]models.PromptLogEntry, error) {
	entries := make([]models.PromptLogEntry, 0)
	for _, entry := range m.Entries {
		if entry.JobID == jobID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
