package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/service"
)

// JobHandler handles job inspection endpoints
type JobHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(services *service.Services, log zerolog.Logger) *JobHandler {
	return &JobHandler{
		services: services,
		log:      log.With().Str("handler", "job").Logger(),
	}
}

// ListJobs handles GET /v1/jobs with optional limit and status filters
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	status := models.JobStatus(c.Query("status"))
	switch status {
	case "", models.JobStatusStarted, models.JobStatusCompleted, models.JobStatusFailed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: started, completed, failed"})
		return
	}

	jobs, err := h.services.Job.ListRecent(c.Request.Context(), limit, status)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// GetJob handles GET /v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.services.Job.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetJobPrompts handles GET /v1/jobs/:job_id/prompts
func (h *JobHandler) GetJobPrompts(c *gin.Context) {
	jobID := c.Param("job_id")

	entries, err := h.services.Job.PromptLogs(c.Request.Context(), jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get prompt log")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get prompt log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":  jobID,
		"prompts": entries,
	})
}

// RetryJob handles POST /v1/jobs/:job_id/retry
func (h *JobHandler) RetryJob(c *gin.Context) {
	jobID := c.Param("job_id")

	result, err := h.services.Blog.Retry(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		case errors.Is(err, service.ErrJobNotRetryable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Error().Err(err).Str("job_id", jobID).Msg("Retry failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetStatistics handles GET /v1/stats
func (h *JobHandler) GetStatistics(c *gin.Context) {
	stats, err := h.services.Job.Statistics(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
