package mocks

import (
	"context"
	"fmt"

	"github.com/wp-autopub/internal/generator"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/quality"
	"github.com/wp-autopub/internal/wordpress"
)

// MockWordPressClient is a mock implementation of the WordPress REST client.
// Created terms and posts are recorded in call order so tests can assert on
// the exact sequence of remote writes.
type MockWordPressClient struct {
	Categories        []models.Category
	Tags              []models.Tag
	CreatedPosts      []*models.WordPressPost
	CreatedCategories []string
	CreatedTags       []string
	UploadedMedia     []string
	CreatePostError   error
	UploadMediaError  error
	TermError         error
	NextPostID        int
	NextTermID        int
	NextMediaID       int
}

// Verify interface compliance
var _ wordpress.Client = (*MockWordPressClient)(nil)

func NewMockWordPressClient() *MockWordPressClient {
	return &MockWordPressClient{
		NextPostID:  100,
		NextTermID:  10,
		NextMediaID: 500,
	}
}

func (m *MockWordPressClient) CreatePost(ctx context.Context, post *models.WordPressPost) (*models.WordPressPost, error) {
	if m.CreatePostError != nil {
		return nil, m.CreatePostError
	}
	created := *post
	id := m.NextPostID
	m.NextPostID++
	created.ID = &id
	m.CreatedPosts = append(m.CreatedPosts, &created)
	return &created, nil
}

func (m *MockWordPressClient) UpdatePost(ctx context.Context, postID int, post *models.WordPressPost) (*models.WordPressPost, error) {
	updated := *post
	updated.ID = &postID
	return &updated, nil
}

func (m *MockWordPressClient) GetPost(ctx context.Context, postID int) (*models.WordPressPost, error) {
	for _, post := range m.CreatedPosts {
		if post.ID != nil && *post.ID == postID {
			return post, nil
		}
	}
	return nil, nil
}

func (m *MockWordPressClient) DeletePost(ctx context.Context, postID int) error {
	return nil
}

func (m *MockWordPressClient) UploadMedia(ctx context.Context, filePath, title, altText string) (*models.WordPressMedia, error) {
	if m.UploadMediaError != nil {
		return nil, m.UploadMediaError
	}
	id := m.NextMediaID
	m.NextMediaID++
	m.UploadedMedia = append(m.UploadedMedia, filePath)
	return &models.WordPressMedia{
		ID:      &id,
		Title:   title,
		AltText: altText,
	}, nil
}

func (m *MockWordPressClient) GetCategories(ctx context.Context) ([]models.Category, error) {
	if m.TermError != nil {
		return nil, m.TermError
	}
	return m.Categories, nil
}

func (m *MockWordPressClient) CreateCategory(ctx context.Context, name, catSlug string) (*models.Category, error) {
	if m.TermError != nil {
		return nil, m.TermError
	}
	id := m.NextTermID
	m.NextTermID++
	cat := models.Category{ID: &id, Name: name, Slug: catSlug}
	m.Categories = append(m.Categories, cat)
	m.CreatedCategories = append(m.CreatedCategories, name)
	return &cat, nil
}

func (m *MockWordPressClient) GetTags(ctx context.Context) ([]models.Tag, error) {
	if m.TermError != nil {
		return nil, m.TermError
	}
	return m.Tags, nil
}

func (m *MockWordPressClient) CreateTag(ctx context.Context, name, tagSlug string) (*models.Tag, error) {
	if m.TermError != nil {
		return nil, m.TermError
	}
	id := m.NextTermID
	m.NextTermID++
	tag := models.Tag{ID: &id, Name: name, Slug: tagSlug}
	m.Tags = append(m.Tags, tag)
	m.CreatedTags = append(m.CreatedTags, name)
	return &tag, nil
}

// MockContentGenerator is a mock implementation of ContentGenerator
type MockContentGenerator struct {
	GenerateFunc  func(ctx context.Context, req generator.GenerateRequest) (*models.PostContent, error)
	GenerateError error
	Requests      []generator.GenerateRequest
}

var _ generator.ContentGenerator = (*MockContentGenerator)(nil)

func NewMockContentGenerator() *MockContentGenerator {
	return &MockContentGenerator{}
}

func (m *MockContentGenerator) Generate(ctx context.Context, req generator.GenerateRequest) (*models.PostContent, error) {
	m.Requests = append(m.Requests, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if m.GenerateError != nil {
		return nil, m.GenerateError
	}
	content := &models.PostContent{
		Topic:       req.Topic,
		Outline:     []string{"Introduction", "Body", "Conclusion"},
		ContentHTML: fmt.Sprintf("<p>Generated content about %s.</p>", req.Topic),
		Excerpt:     fmt.Sprintf("A detailed look at %s and why it matters today.", req.Topic),
		Slug:        "test-slug",
		Categories:  req.Categories,
		Tags:        req.Tags,
		Schedule:    models.ScheduleInfo{Mode: models.ScheduleModeDraft},
	}
	if req.Schedule != nil {
		content.Schedule = *req.Schedule
	}
	return content, nil
}

// MockImageGenerator is a mock implementation of ImageGenerator
type MockImageGenerator struct {
	Image       *models.ImageInfo
	CreateError error
	Calls       int
}

var _ generator.ImageGenerator = (*MockImageGenerator)(nil)

func NewMockImageGenerator() *MockImageGenerator {
	return &MockImageGenerator{
		Image: &models.ImageInfo{
			Path:          "/tmp/test-featured.jpg",
			Alt:           "test alt text",
			UseAsFeatured: true,
		},
	}
}

func (m *MockImageGenerator) CreateFeaturedImage(ctx context.Context, topic string) (*models.ImageInfo, error) {
	m.Calls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	return m.Image, nil
}

// MockQualityChecker is a mock implementation of QualityChecker
type MockQualityChecker struct {
	Result     *models.QualityCheckResult
	CheckError error
	Checked    []*models.PostContent
}

var _ quality.QualityChecker = (*MockQualityChecker)(nil)

func NewMockQualityChecker() *MockQualityChecker {
	return &MockQualityChecker{
		Result: &models.QualityCheckResult{Passed: true, Score: 100},
	}
}

func (m *MockQualityChecker) Check(ctx context.Context, content *models.PostContent) (*models.QualityCheckResult, error) {
	m.Checked = append(m.Checked, content)
	if m.CheckError != nil {
		return nil, m.CheckError
	}
	return m.Result, nil
}
