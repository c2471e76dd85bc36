package models

import (
	"time"
)

// PostStatus mirrors the WordPress post status vocabulary.
type PostStatus string

const (
	PostStatusDraft   PostStatus = "draft"
	PostStatusPublish PostStatus = "publish"
	PostStatusFuture  PostStatus = "future"
	PostStatusPrivate PostStatus = "private"
)

// WordPressStatus maps a schedule mode to the status sent to WordPress.
func WordPressStatus(mode ScheduleMode) PostStatus {
	switch mode {
	case ScheduleModePublish:
		return PostStatusPublish
	case ScheduleModeSchedule:
		return PostStatusFuture
	default:
		return PostStatusDraft
	}
}

// WordPressPost mirrors the WP REST post resource. ID is assigned remotely on
// creation.
type WordPressPost struct {
	ID            *int           `json:"id,omitempty"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Excerpt       string         `json:"excerpt"`
	Slug          string         `json:"slug"`
	Status        PostStatus     `json:"status"`
	Date          *time.Time     `json:"date,omitempty"`
	Categories    []int          `json:"categories"`
	Tags          []int          `json:"tags"`
	FeaturedMedia *int           `json:"featured_media,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
}

// WordPressMedia mirrors the WP REST media resource.
type WordPressMedia struct {
	ID        *int   `json:"id,omitempty"`
	Title     string `json:"title"`
	AltText   string `json:"alt_text"`
	SourceURL string `json:"source_url,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

// Category is a WordPress category; ID is assigned by the remote side.
type Category struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Tag is a WordPress tag; ID is assigned by the remote side.
type Tag struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
