package mocks

import (
	"context"

	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/service"
)

// MockBlogService is a mock implementation of BlogService
type MockBlogService struct {
	PublishFunc      func(ctx context.Context, req service.PublishRequest) (*models.PublicationResult, error)
	GenerateOnlyFunc func(ctx context.Context, topic string) (*models.PostContent, error)
	RetryFunc        func(ctx context.Context, jobID string) (*models.PublicationResult, error)
	PublishRequests  []service.PublishRequest
}

// Verify interface compliance
var _ service.BlogService = (*MockBlogService)(nil)

func NewMockBlogService() *MockBlogService {
	return &MockBlogService{}
}

func (m *MockBlogService) Publish(ctx context.Context, req service.PublishRequest) (*models.PublicationResult, error) {
	m.PublishRequests = append(m.PublishRequests, req)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, req)
	}
	return &models.PublicationResult{
		JobID:         "mock-job-id",
		WPPostID:      1,
		Title:         req.Topic,
		Status:        "draft",
		QualityPassed: true,
		QualityScore:  100,
	}, nil
}

func (m *MockBlogService) GenerateOnly(ctx context.Context, topic string) (*models.PostContent, error) {
	if m.GenerateOnlyFunc != nil {
		return m.GenerateOnlyFunc(ctx, topic)
	}
	return &models.PostContent{
		Topic:    topic,
		Slug:     "mock-slug",
		Schedule: models.ScheduleInfo{Mode: models.ScheduleModeDraft},
	}, nil
}

func (m *MockBlogService) Retry(ctx context.Context, jobID string) (*models.PublicationResult, error) {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, jobID)
	}
	return &models.PublicationResult{JobID: "retried-job-id", Status: "draft"}, nil
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	GetJobFunc     func(ctx context.Context, id string) (*models.GenerationJob, error)
	ListRecentFunc func(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error)
	StatsFunc      func(ctx context.Context) (*models.JobStatistics, error)
	PromptLogsFunc func(ctx context.Context, jobID string) ([]models.PromptLogEntry, error)
}

var _ service.JobService = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{}
}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.GenerationJob, error) {
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, id)
	}
	return &models.GenerationJob{ID: id, Status: models.JobStatusCompleted}, nil
}

func (m *MockJobService) ListRecent(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit, status)
	}
	return nil, nil
}

func (m *MockJobService) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.JobStatistics{StatusCounts: map[models.JobStatus]int{}}, nil
}

func (m *MockJobService) PromptLogs(ctx context.Context, jobID string) ([]models.PromptLogEntry, error) {
	if m.PromptLogsFunc != nil {
		return m.PromptLogsFunc(ctx, jobID)
	}
	return nil, nil
}
