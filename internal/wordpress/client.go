package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/pkg/slug"
)

// Client is the remote CMS boundary the workflow depends on.
type Client interface {
	CreatePost(ctx context.Context, post *models.WordPressPost) (*models.WordPressPost, error)
	UpdatePost(ctx context.Context, postID int, post *models.WordPressPost) (*models.WordPressPost, error)
	GetPost(ctx context.Context, postID int) (*models.WordPressPost, error)
	DeletePost(ctx context.Context, postID int) error
	UploadMedia(ctx context.Context, filePath, title, altText string) (*models.WordPressMedia, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, catSlug string) (*models.Category, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name, tagSlug string) (*models.Tag, error)
}

// HTTPClient implements Client against the WordPress REST API (wp/v2).
type HTTPClient struct {
	baseURL    string
	apiBase    string
	authHeader string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client with a static basic-auth credential pair.
func NewHTTPClient(cfg config.WordPressConfig, log zerolog.Logger) *HTTPClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	credentials := cfg.Username + ":" + cfg.AppPassword

	return &HTTPClient{
		baseURL:    base,
		apiBase:    base + "/wp-json/wp/v2",
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log.With().Str("component", "wordpress").Logger(),
	}
}

// BaseURL returns the configured site root, used to build public post URLs.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// wire formats: WordPress returns title/content/excerpt as rendered objects.
type rendered struct {
	Rendered string `json:"rendered"`
}

type postResponse struct {
	ID            int            `json:"id"`
	Title         rendered       `json:"title"`
	Content       rendered       `json:"content"`
	Excerpt       rendered       `json:"excerpt"`
	Slug          string         `json:"slug"`
	Status        string         `json:"status"`
	Date          string         `json:"date"`
	Categories    []int          `json:"categories"`
	Tags          []int          `json:"tags"`
	FeaturedMedia int            `json:"featured_media"`
	Meta          map[string]any `json:"meta"`
}

func (p postResponse) toModel() *models.WordPressPost {
	post := &models.WordPressPost{
		ID:         &p.ID,
		Title:      p.Title.Rendered,
		Content:    p.Content.Rendered,
		Excerpt:    p.Excerpt.Rendered,
		Slug:       p.Slug,
		Status:     models.PostStatus(p.Status),
		Categories: p.Categories,
		Tags:       p.Tags,
		Meta:       p.Meta,
	}
	if p.FeaturedMedia != 0 {
		id := p.FeaturedMedia
		post.FeaturedMedia = &id
	}
	if p.Date != "" {
		if t, err := time.Parse("2006-01-02T15:04:05", p.Date); err == nil {
			post.Date = &t
		} else if t, err := time.Parse(time.RFC3339, p.Date); err == nil {
			post.Date = &t
		}
	}
	return post
}

func postPayload(post *models.WordPressPost) map[string]any {
	data := map[string]any{
		"title":      post.Title,
		"content":    post.Content,
		"excerpt":    post.Excerpt,
		"slug":       post.Slug,
		"status":     string(post.Status),
		"categories": post.Categories,
		"tags":       post.Tags,
	}
	if post.FeaturedMedia != nil {
		data["featured_media"] = *post.FeaturedMedia
	}
	if post.Date != nil {
		data["date"] = post.Date.Format(time.RFC3339)
	}
	if len(post.Meta) > 0 {
		data["meta"] = post.Meta
	}
	return data
}

// CreatePost submits a new post and returns the authoritative remote copy.
func (c *HTTPClient) CreatePost(ctx context.Context, post *models.WordPressPost) (*models.WordPressPost, error) {
	var resp postResponse
	if err := c.doJSON(ctx, http.MethodPost, c.apiBase+"/posts", postPayload(post), &resp); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return resp.toModel(), nil
}

// UpdatePost overwrites an existing post.
func (c *HTTPClient) UpdatePost(ctx context.Context, postID int, post *models.WordPressPost) (*models.WordPressPost, error) {
	url := fmt.Sprintf("%s/posts/%d", c.apiBase, postID)
	var resp postResponse
	if err := c.doJSON(ctx, http.MethodPost, url, postPayload(post), &resp); err != nil {
		return nil, fmt.Errorf("update post %d: %w", postID, err)
	}
	return resp.toModel(), nil
}

// GetPost fetches a post; returns nil when the remote side reports 404.
func (c *HTTPClient) GetPost(ctx context.Context, postID int) (*models.WordPressPost, error) {
	url := fmt.Sprintf("%s/posts/%d", c.apiBase, postID)
	var resp postResponse
	err := c.doJSON(ctx, http.MethodGet, url, nil, &resp)
	if err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}
	return resp.toModel(), nil
}

// DeletePost removes a post.
func (c *HTTPClient) DeletePost(ctx context.Context, postID int) error {
	url := fmt.Sprintf("%s/posts/%d", c.apiBase, postID)
	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete post %d: %w", postID, err)
	}
	return nil
}

// UploadMedia posts the file body to the media endpoint, then applies title
// and alt text in a follow-up update.
func (c *HTTPClient) UploadMedia(ctx context.Context, filePath, title, altText string) (*models.WordPressMedia, error) {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/media", bytes.NewReader(fileContent))
	if err != nil {
		return nil, fmt.Errorf("new media request: %w", err)
	}
	filename := filepath.Base(filePath)
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, readStatusError(resp)
	}

	var result struct {
		ID        int    `json:"id"`
		SourceURL string `json:"source_url"`
		MimeType  string `json:"mime_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}

	// Apply alt text and title to the fresh attachment.
	updateURL := fmt.Sprintf("%s/media/%d", c.apiBase, result.ID)
	patch := map[string]any{"alt_text": altText, "title": title}
	if err := c.doJSON(ctx, http.MethodPost, updateURL, patch, nil); err != nil {
		return nil, fmt.Errorf("set media alt text: %w", err)
	}

	return &models.WordPressMedia{
		ID:        &result.ID,
		Title:     title,
		AltText:   altText,
		SourceURL: result.SourceURL,
		MimeType:  result.MimeType,
	}, nil
}

type termResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GetCategories lists all remote categories.
func (c *HTTPClient) GetCategories(ctx context.Context) ([]models.Category, error) {
	var results []termResponse
	if err := c.doJSON(ctx, http.MethodGet, c.apiBase+"/categories?per_page=100", nil, &results); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}

	categories := make([]models.Category, 0, len(results))
	for _, t := range results {
		id := t.ID
		categories = append(categories, models.Category{ID: &id, Name: t.Name, Slug: t.Slug})
	}
	return categories, nil
}

// CreateCategory creates a remote category and returns it with its id.
func (c *HTTPClient) CreateCategory(ctx context.Context, name, catSlug string) (*models.Category, error) {
	if catSlug == "" {
		catSlug = slug.Make(name)
	}
	var result termResponse
	payload := map[string]any{"name": name, "slug": catSlug}
	if err := c.doJSON(ctx, http.MethodPost, c.apiBase+"/categories", payload, &result); err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}
	id := result.ID
	return &models.Category{ID: &id, Name: result.Name, Slug: result.Slug}, nil
}

// GetTags lists all remote tags.
func (c *HTTPClient) GetTags(ctx context.Context) ([]models.Tag, error) {
	var results []termResponse
	if err := c.doJSON(ctx, http.MethodGet, c.apiBase+"/tags?per_page=100", nil, &results); err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}

	tags := make([]models.Tag, 0, len(results))
	for _, t := range results {
		id := t.ID
		tags = append(tags, models.Tag{ID: &id, Name: t.Name, Slug: t.Slug})
	}
	return tags, nil
}

// CreateTag creates a remote tag and returns it with its id.
func (c *HTTPClient) CreateTag(ctx context.Context, name, tagSlug string) (*models.Tag, error) {
	if tagSlug == "" {
		tagSlug = slug.Make(name)
	}
	var result termResponse
	payload := map[string]any{"name": name, "slug": tagSlug}
	if err := c.doJSON(ctx, http.MethodPost, c.apiBase+"/tags", payload, &result); err != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}
	id := result.ID
	return &models.Tag{ID: &id, Name: result.Name, Slug: result.Slug}, nil
}

// doJSON performs one authenticated JSON round trip. A nil out discards the
// response body; non-2xx responses become statusError values.
func (c *HTTPClient) doJSON(ctx context.Context, method, url string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return readStatusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError carries the remote status code and a trimmed error body.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wordpress error %d: %s", e.code, e.body)
}

func readStatusError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(payload))}
}
