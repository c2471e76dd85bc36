package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/api"
	"github.com/wp-autopub/internal/mocks"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/service"
)

func setupTestRouter() (*gin.Engine, *mocks.MockBlogService, *mocks.MockJobService) {
	gin.SetMode(gin.TestMode)

	mockBlog := mocks.NewMockBlogService()
	mockJob := mocks.NewMockJobService()

	services := &service.Services{
		Blog: mockBlog,
		Job:  mockJob,
	}

	router := api.NewRouter(services, nil, zerolog.Nop())
	return router, mockBlog, mockJob
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "wp-autopub" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestCreatePost(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts", map[string]any{
		"topic":          "Go generics",
		"mode":           "publish",
		"categories":     []string{"Tech"},
		"generate_image": true,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(mockBlog.PublishRequests) != 1 {
		t.Fatalf("Expected 1 publish call, got %d", len(mockBlog.PublishRequests))
	}
	req := mockBlog.PublishRequests[0]
	if req.Topic != "Go generics" {
		t.Errorf("Unexpected topic: %s", req.Topic)
	}
	if req.Schedule.Mode != models.ScheduleModePublish {
		t.Errorf("Unexpected mode: %s", req.Schedule.Mode)
	}
	if !req.GenerateImage {
		t.Error("GenerateImage should be forwarded")
	}
}

func TestCreatePost_ImageDefaultsOn(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts", map[string]any{
		"topic": "Go generics",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(mockBlog.PublishRequests) != 1 {
		t.Fatalf("Expected 1 publish call, got %d", len(mockBlog.PublishRequests))
	}
	if !mockBlog.PublishRequests[0].GenerateImage {
		t.Error("Omitted generate_image should default to true")
	}
}

func TestCreatePost_ImageExplicitlyDisabled(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts", map[string]any{
		"topic":          "Go generics",
		"generate_image": false,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if mockBlog.PublishRequests[0].GenerateImage {
		t.Error("Explicit false should disable image generation")
	}
}

func TestCreatePost_MissingTopic(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts", map[string]any{"mode": "draft"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if len(mockBlog.PublishRequests) != 0 {
		t.Error("Publish should not be called")
	}
}

func TestCreatePost_ScheduleWithoutTimestamp(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts", map[string]any{
		"topic": "Scheduled topic",
		"mode":  "schedule",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if len(mockBlog.PublishRequests) != 0 {
		t.Error("Publish should not be called for an invalid schedule")
	}
}

func TestCreatePost_UnknownMode(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts", map[string]any{
		"topic": "Topic",
		"mode":  "immediately",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCreatePost_ScheduleParsesTimestamp(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()

	when := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	w := postJSON(router, "/v1/posts", map[string]any{
		"topic":        "Scheduled topic",
		"mode":         "schedule",
		"scheduled_at": when.Format(time.RFC3339),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	got := mockBlog.PublishRequests[0].Schedule
	if got.ScheduledAt == nil || !got.ScheduledAt.Equal(when) {
		t.Errorf("Timestamp not forwarded: %v", got.ScheduledAt)
	}
}

func TestCreatePost_WorkflowFailure(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()
	mockBlog.PublishFunc = func(ctx context.Context, req service.PublishRequest) (*models.PublicationResult, error) {
		return nil, fmt.Errorf("upstream model unavailable")
	}

	w := postJSON(router, "/v1/posts", map[string]any{"topic": "Doomed", "mode": "draft"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestPreviewPost(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := postJSON(router, "/v1/posts/preview", map[string]any{"topic": "Preview me"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var content models.PostContent
	json.Unmarshal(w.Body.Bytes(), &content)
	if content.Topic != "Preview me" {
		t.Errorf("Unexpected topic: %s", content.Topic)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	router, _, mockJob := setupTestRouter()
	mockJob.GetJobFunc = func(ctx context.Context, id string) (*models.GenerationJob, error) {
		return nil, fmt.Errorf("%w: %s", service.ErrJobNotFound, id)
	}

	req := httptest.NewRequest("GET", "/v1/jobs/missing-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetJob_Found(t *testing.T) {
	router, _, mockJob := setupTestRouter()
	mockJob.GetJobFunc = func(ctx context.Context, id string) (*models.GenerationJob, error) {
		return &models.GenerationJob{ID: id, Topic: "Found topic", Status: models.JobStatusCompleted}, nil
	}

	req := httptest.NewRequest("GET", "/v1/jobs/abc-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var job models.GenerationJob
	json.Unmarshal(w.Body.Bytes(), &job)
	if job.Topic != "Found topic" {
		t.Errorf("Unexpected topic: %s", job.Topic)
	}
}

func TestListJobs_InvalidStatus(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/v1/jobs?status=bogus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListJobs_ForwardsFilters(t *testing.T) {
	router, _, mockJob := setupTestRouter()

	var gotLimit int
	var gotStatus models.JobStatus
	mockJob.ListRecentFunc = func(ctx context.Context, limit int, status models.JobStatus) ([]*models.GenerationJob, error) {
		gotLimit = limit
		gotStatus = status
		return []*models.GenerationJob{{ID: "a"}}, nil
	}

	req := httptest.NewRequest("GET", "/v1/jobs?limit=5&status=failed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotLimit != 5 || gotStatus != models.JobStatusFailed {
		t.Errorf("Filters not forwarded: limit=%d status=%s", gotLimit, gotStatus)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["count"] != float64(1) {
		t.Errorf("Unexpected count: %v", response["count"])
	}
}

func TestRetryJob_Conflict(t *testing.T) {
	router, mockBlog, _ := setupTestRouter()
	mockBlog.RetryFunc = func(ctx context.Context, jobID string) (*models.PublicationResult, error) {
		return nil, fmt.Errorf("%w: job %s has status completed", service.ErrJobNotRetryable, jobID)
	}

	req := httptest.NewRequest("POST", "/v1/jobs/done-job/retry", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestRetryJob_Success(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("POST", "/v1/jobs/failed-job/retry", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var result models.PublicationResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Status != "draft" {
		t.Errorf("Retry should come back as draft, got %s", result.Status)
	}
}

func TestStatistics(t *testing.T) {
	router, _, mockJob := setupTestRouter()
	mockJob.StatsFunc = func(ctx context.Context) (*models.JobStatistics, error) {
		return &models.JobStatistics{
			TotalJobs:   10,
			SuccessRate: 80,
			StatusCounts: map[models.JobStatus]int{
				models.JobStatusCompleted: 8,
				models.JobStatusFailed:    2,
			},
		}, nil
	}

	req := httptest.NewRequest("GET", "/v1/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var stats models.JobStatistics
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalJobs != 10 || stats.SuccessRate != 80 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
