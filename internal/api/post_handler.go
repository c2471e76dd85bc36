package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/service"
)

// PostHandler handles post generation and publication endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

type createPostRequest struct {
	Topic       string   `json:"topic"`
	Mode        string   `json:"mode"`
	ScheduledAt string   `json:"scheduled_at"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	// Image generation is on unless the caller explicitly turns it off.
	GenerateImage *bool `json:"generate_image"`
}

// CreatePost handles POST /v1/posts. The full workflow runs synchronously;
// the response carries the publication result including quality findings.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	schedule := models.ScheduleInfo{Mode: models.ScheduleModeDraft}
	if req.Mode != "" {
		schedule.Mode = models.ScheduleMode(req.Mode)
	}
	if req.ScheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be RFC 3339"})
			return
		}
		schedule.ScheduledAt = &parsed
	}
	if err := schedule.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	generateImage := true
	if req.GenerateImage != nil {
		generateImage = *req.GenerateImage
	}

	result, err := h.services.Blog.Publish(c.Request.Context(), service.PublishRequest{
		Topic:         req.Topic,
		Schedule:      schedule,
		Categories:    req.Categories,
		Tags:          req.Tags,
		GenerateImage: generateImage,
	})
	if err != nil {
		h.log.Error().Err(err).Str("topic", req.Topic).Msg("Publication failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// PreviewPost handles POST /v1/posts/preview. Content is generated but
// nothing is written to WordPress or the job store.
func (h *PostHandler) PreviewPost(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	content, err := h.services.Blog.GenerateOnly(c.Request.Context(), req.Topic)
	if err != nil {
		h.log.Error().Err(err).Str("topic", req.Topic).Msg("Preview generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, content)
}
