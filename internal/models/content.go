package models

import (
	"fmt"
	"time"
)

// ScheduleMode selects how a generated post should enter WordPress.
type ScheduleMode string

const (
	ScheduleModeDraft    ScheduleMode = "draft"
	ScheduleModePublish  ScheduleMode = "publish"
	ScheduleModeSchedule ScheduleMode = "schedule"
)

// ScheduleInfo is the requested publication mode, with a timestamp when the
// mode is "schedule".
type ScheduleInfo struct {
	Mode        ScheduleMode `json:"mode"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
}

// Validate rejects malformed schedule requests before they reach the workflow.
func (s ScheduleInfo) Validate() error {
	switch s.Mode {
	case ScheduleModeDraft, ScheduleModePublish:
		return nil
	case ScheduleModeSchedule:
		if s.ScheduledAt == nil {
			return fmt.Errorf("schedule mode requires a scheduled_at timestamp")
		}
		return nil
	default:
		return fmt.Errorf("unknown schedule mode %q", s.Mode)
	}
}

// ImageInfo describes one generated image attached to a post.
type ImageInfo struct {
	Path          string `json:"path"`
	Alt           string `json:"alt"`
	UseAsFeatured bool   `json:"use_as_featured"`
	WPMediaID     *int   `json:"wp_media_id,omitempty"`
}

// PostContent is the fully generated, pre-publication article payload.
// The slug is URL-safe (lowercase, hyphen-separated ASCII). The schedule mode
// is the only field mutated after construction, and only by the quality-gate
// override.
type PostContent struct {
	Topic       string       `json:"topic"`
	Outline     []string     `json:"outline"`
	ContentHTML string       `json:"content_html"`
	Excerpt     string       `json:"excerpt"`
	Slug        string       `json:"slug"`
	Categories  []string     `json:"categories"`
	Tags        []string     `json:"tags"`
	Images      []ImageInfo  `json:"images,omitempty"`
	Schedule    ScheduleInfo `json:"schedule"`
}

// QualityCheckResult is the quality gate's verdict for one piece of content.
type QualityCheckResult struct {
	Passed      bool     `json:"passed"`
	Score       float64  `json:"score"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// PublicationResult is returned to the caller after a successful publish run.
type PublicationResult struct {
	JobID          string   `json:"job_id"`
	WPPostID       int      `json:"wp_post_id"`
	Title          string   `json:"title"`
	Status         string   `json:"status"`
	URL            string   `json:"url"`
	QualityScore   float64  `json:"quality_score"`
	QualityPassed  bool     `json:"quality_passed"`
	QualityIssues  []string `json:"quality_issues,omitempty"`
}
