package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/generator"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/quality"
	"github.com/wp-autopub/internal/repository"
	"github.com/wp-autopub/internal/wordpress"
)

// blogService is the concrete implementation of BlogService. It is the only
// component aware of every collaborator: pipeline, gate, taxonomy, media,
// post creation, and job persistence.
type blogService struct {
	jobs     repository.JobRepository
	wp       wordpress.Client
	content  generator.ContentGenerator
	image    generator.ImageGenerator
	quality  quality.QualityChecker
	taxonomy *TaxonomyResolver
	baseURL  string
	log      zerolog.Logger
}

// newBlogService creates the publication orchestrator
func newBlogService(jobs repository.JobRepository, collab Collaborators, baseURL string, log zerolog.Logger) *blogService {
	return &blogService{
		jobs:     jobs,
		wp:       collab.WordPress,
		content:  collab.Content,
		image:    collab.Image,
		quality:  collab.Quality,
		taxonomy: NewTaxonomyResolver(collab.WordPress),
		baseURL:  baseURL,
		log:      log.With().Str("service", "blog").Logger(),
	}
}

// Publish runs the full generation-and-publication workflow. The job record
// is written exactly twice: once at start and once on completion or failure.
// Every failure between those writes is recorded on the job and then
// surfaced unchanged to the caller.
func (s *blogService) Publish(ctx context.Context, req PublishRequest) (*models.PublicationResult, error) {
	job := &models.GenerationJob{
		ID:        uuid.New().String(),
		Topic:     req.Topic,
		Status:    models.JobStatusStarted,
		CreatedAt: time.Now(),
	}
	if req.Schedule.Mode == models.ScheduleModeSchedule {
		job.ScheduledAt = req.Schedule.ScheduledAt
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	s.log.Info().Str("job_id", job.ID).Str("topic", req.Topic).Msg("Publication workflow started")

	result, err := s.runWorkflow(ctx, job, req)
	if err != nil {
		job.Status = models.JobStatusFailed
		job.ErrorMessage = err.Error()
		if saveErr := s.jobs.Save(ctx, job); saveErr != nil {
			s.log.Error().Err(saveErr).Str("job_id", job.ID).Msg("Failed to record job failure")
		}
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Publication workflow failed")
		return nil, err
	}

	s.log.Info().
		Str("job_id", job.ID).
		Int("wp_post_id", result.WPPostID).
		Str("status", result.Status).
		Msg("Publication workflow completed")

	return result, nil
}

func (s *blogService) runWorkflow(ctx context.Context, job *models.GenerationJob, req PublishRequest) (*models.PublicationResult, error) {
	content, err := s.content.Generate(ctx, generator.GenerateRequest{
		Topic:      req.Topic,
		Schedule:   &req.Schedule,
		Categories: req.Categories,
		Tags:       req.Tags,
		JobID:      job.ID,
	})
	if err != nil {
		return nil, err
	}

	if req.GenerateImage {
		featured, err := s.image.CreateFeaturedImage(ctx, req.Topic)
		if err != nil {
			return nil, err
		}
		content.Images = []models.ImageInfo{*featured}
	}

	check, err := s.quality.Check(ctx, content)
	if err != nil {
		return nil, err
	}
	if !check.Passed {
		// Failing the gate forces a draft; the requested mode is overridden,
		// not merely suggested against.
		s.log.Warn().
			Str("job_id", job.ID).
			Float64("score", check.Score).
			Int("issues", len(check.Issues)).
			Msg("Quality gate failed, forcing draft")
		content.Schedule.Mode = models.ScheduleModeDraft
	}

	categories, err := s.taxonomy.ResolveCategories(ctx, content.Categories)
	if err != nil {
		return nil, err
	}
	tags, err := s.taxonomy.ResolveTags(ctx, content.Tags)
	if err != nil {
		return nil, err
	}

	var featuredMediaID *int
	for i := range content.Images {
		if !content.Images[i].UseAsFeatured {
			continue
		}
		media, err := s.wp.UploadMedia(ctx, content.Images[i].Path,
			fmt.Sprintf("%s - featured image", req.Topic), content.Images[i].Alt)
		if err != nil {
			return nil, err
		}
		featuredMediaID = media.ID
		content.Images[i].WPMediaID = media.ID
		break
	}

	post := &models.WordPressPost{
		Title:         content.Topic,
		Content:       content.ContentHTML,
		Excerpt:       content.Excerpt,
		Slug:          content.Slug,
		Status:        models.WordPressStatus(content.Schedule.Mode),
		Date:          content.Schedule.ScheduledAt,
		Categories:    categoryIDs(categories),
		Tags:          tagIDs(tags),
		FeaturedMedia: featuredMediaID,
	}

	created, err := s.wp.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.Status = models.JobStatusCompleted
	job.CompletedAt = &now
	job.WPPostID = created.ID
	job.Content = content
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("finalize job: %w", err)
	}

	result := &models.PublicationResult{
		JobID:         job.ID,
		Title:         created.Title,
		Status:        string(created.Status),
		URL:           fmt.Sprintf("%s/%s", s.baseURL, created.Slug),
		QualityScore:  check.Score,
		QualityPassed: check.Passed,
		QualityIssues: check.Issues,
	}
	if created.ID != nil {
		result.WPPostID = *created.ID
	}
	return result, nil
}

// GenerateOnly runs the content pipeline without publishing, for previews.
func (s *blogService) GenerateOnly(ctx context.Context, topic string) (*models.PostContent, error) {
	return s.content.Generate(ctx, generator.GenerateRequest{Topic: topic})
}

// Retry re-runs the workflow for a failed job's topic as a draft. Any other
// job status is an invalid-state error; no remote calls are made in that
// case. The retry runs under a fresh job id.
func (s *blogService) Retry(ctx context.Context, jobID string) (*models.PublicationResult, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if job.Status != models.JobStatusFailed {
		return nil, fmt.Errorf("%w: job %s has status %s", ErrJobNotRetryable, jobID, job.Status)
	}

	return s.Publish(ctx, PublishRequest{
		Topic:         job.Topic,
		Schedule:      models.ScheduleInfo{Mode: models.ScheduleModeDraft},
		GenerateImage: true,
	})
}

func categoryIDs(categories []models.Category) []int {
	ids := make([]int, 0, len(categories))
	for _, cat := range categories {
		if cat.ID != nil {
			ids = append(ids, *cat.ID)
		}
	}
	return ids
}

func tagIDs(tags []models.Tag) []int {
	ids := make([]int, 0, len(tags))
	for _, tag := range tags {
		if tag.ID != nil {
			ids = append(ids, *tag.ID)
		}
	}
	return ids
}
