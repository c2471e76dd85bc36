package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/openai"
	"github.com/wp-autopub/pkg/slug"
)

// OutlineGenerator produces an ordered list of section headings for a topic.
type OutlineGenerator interface {
	GenerateOutline(ctx context.Context, topic string) ([]string, error)
}

// ContentWriter writes the full HTML body from a topic and its outline.
type ContentWriter interface {
	WriteContent(ctx context.Context, topic string, outline []string) (string, error)
}

// SEOMeta is the metadata derived from a finished body.
type SEOMeta struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Slug     string `json:"slug"`
	Keywords string `json:"keywords"`
}

// SEOOptimizer derives SEO metadata from a finished body. An error from it
// fails the pipeline; implementations that cannot parse a reply are expected
// to return deterministic defaults instead.
type SEOOptimizer interface {
	OptimizeContent(ctx context.Context, content, topic string) (*SEOMeta, error)
}

// fallbackSEOMeta is the deterministic metadata used when the model reply
// cannot be parsed.
func fallbackSEOMeta(topic string) *SEOMeta {
	return &SEOMeta{
		Title:    topic,
		Excerpt:  fmt.Sprintf("Detailed information about %s.", topic),
		Slug:     slug.Make(topic),
		Keywords: topic,
	}
}

// PromptRecorder receives one audit entry per external generation call.
type PromptRecorder interface {
	Append(ctx context.Context, entry *models.PromptLogEntry) error
}

// GenerateRequest carries the pipeline inputs. JobID, when set, keys the
// prompt audit log.
type GenerateRequest struct {
	Topic      string
	Schedule   *models.ScheduleInfo
	Categories []string
	Tags       []string
	JobID      string
}

// ContentGenerator is the full pipeline: outline, body, SEO metadata.
type ContentGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*models.PostContent, error)
}

// openAIOutlineGenerator asks for a JSON array of 5-8 section headings.
type openAIOutlineGenerator struct {
	chat *openai.Client
}

func (g *openAIOutlineGenerator) GenerateOutline(ctx context.Context, topic string) ([]string, error) {
	prompt := fmt.Sprintf(`Generate an outline for a blog post on the topic %q.
Requirements:
- 5 to 8 main sections
- each section is an H2 or H3 style heading
- ordered for SEO and reader interest

Return a JSON array of strings only:
["Section 1", "Section 2", ...]`, topic)

	reply, err := g.chat.Complete(ctx, prompt, 0.7)
	if err != nil {
		return nil, fmt.Errorf("generate outline: %w", err)
	}

	var outline []string
	if err := json.Unmarshal([]byte(reply), &outline); err == nil {
		return outline, nil
	}

	// Not valid JSON; treat each non-empty line as a heading.
	for _, line := range strings.Split(reply, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			outline = append(outline, trimmed)
		}
	}
	return outline, nil
}

// openAIContentWriter expands the outline into an HTML body.
type openAIContentWriter struct {
	chat *openai.Client
}

func (w *openAIContentWriter) WriteContent(ctx context.Context, topic string, outline []string) (string, error) {
	var b strings.Builder
	for _, section := range outline {
		fmt.Fprintf(&b, "- %s\n", section)
	}

	prompt := fmt.Sprintf(`Topic: %q
Outline:
%s
Write a detailed blog post following the outline above.
Requirements:
- HTML only (h1, h2, h3, p, ul, li tags)
- at least 2-3 paragraphs per section
- natural keyword placement for SEO
- at least 800 words

Return only the HTML content, no commentary:`, topic, b.String())

	body, err := w.chat.Complete(ctx, prompt, 0.7)
	if err != nil {
		return "", fmt.Errorf("write content: %w", err)
	}
	return body, nil
}

// openAISEOOptimizer derives title/excerpt/slug/keywords from the body.
type openAISEOOptimizer struct {
	chat *openai.Client
}

func (o *openAISEOOptimizer) OptimizeContent(ctx context.Context, content, topic string) (*SEOMeta, error) {
	sample := content
	if len(sample) > 1000 {
		sample = sample[:1000]
	}

	prompt := fmt.Sprintf(`Topic: %q
Content:
%s...

Generate SEO metadata for the content above:
- title: engaging, SEO friendly, under 60 characters
- excerpt: search-engine description, under 150 characters
- slug: URL friendly, lowercase, hyphenated
- keywords: up to 5 related keywords, comma separated

Return a JSON object only:
{"title": "...", "excerpt": "...", "slug": "...", "keywords": "..."}`, topic, sample)

	reply, err := o.chat.Complete(ctx, prompt, 0.3)
	if err != nil {
		return nil, fmt.Errorf("optimize content: %w", err)
	}

	// Only an unparseable reply falls back; transport and API errors above
	// propagate so the workflow can fail the job.
	var meta SEOMeta
	if err := json.Unmarshal([]byte(reply), &meta); err != nil {
		return fallbackSEOMeta(topic), nil
	}
	return &meta, nil
}

// Generator composes the three generation stages into one PostContent value.
type Generator struct {
	outline  OutlineGenerator
	writer   ContentWriter
	seo      SEOOptimizer
	recorder PromptRecorder
	content  config.ContentConfig
	log      zerolog.Logger
}

var _ ContentGenerator = (*Generator)(nil)

// GeneratorDeps wires the three stage implementations into the facade.
type GeneratorDeps struct {
	Outline  OutlineGenerator
	Writer   ContentWriter
	SEO      SEOOptimizer
	Recorder PromptRecorder
}

// New builds the facade with OpenAI-backed stages.
func New(cfg *config.Config, recorder PromptRecorder, log zerolog.Logger) *Generator {
	chat := openai.NewClient(cfg.OpenAI)
	return NewWithDeps(cfg.Content, GeneratorDeps{
		Outline:  &openAIOutlineGenerator{chat: chat},
		Writer:   &openAIContentWriter{chat: chat},
		SEO:      &openAISEOOptimizer{chat: chat},
		Recorder: recorder,
	}, log)
}

// NewWithDeps builds the facade from explicit stage implementations.
func NewWithDeps(content config.ContentConfig, deps GeneratorDeps, log zerolog.Logger) *Generator {
	return &Generator{
		outline:  deps.Outline,
		writer:   deps.Writer,
		seo:      deps.SEO,
		recorder: deps.Recorder,
		content:  content,
		log:      log.With().Str("component", "generator").Logger(),
	}
}

// Generate runs outline, body, and SEO stages in strict sequence. Any stage
// error aborts the pipeline. Images are never populated here.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*models.PostContent, error) {
	outline, err := g.outline.GenerateOutline(ctx, req.Topic)
	if err != nil {
		return nil, err
	}
	g.record(ctx, req.JobID, "outline", req.Topic, strings.Join(outline, "\n"))

	body, err := g.writer.WriteContent(ctx, req.Topic, outline)
	if err != nil {
		return nil, err
	}
	g.record(ctx, req.JobID, "content", req.Topic, body)

	meta, err := g.seo.OptimizeContent(ctx, body, req.Topic)
	if err != nil {
		return nil, err
	}
	g.record(ctx, req.JobID, "seo", req.Topic, meta.Title)

	schedule := models.ScheduleInfo{Mode: models.ScheduleModeDraft}
	if req.Schedule != nil {
		schedule = *req.Schedule
	}

	categories := req.Categories
	if len(categories) == 0 {
		categories = []string{g.content.DefaultCategory}
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags = g.content.DefaultTags
	}

	return &models.PostContent{
		Topic:       req.Topic,
		Outline:     outline,
		ContentHTML: body,
		Excerpt:     meta.Excerpt,
		Slug:        meta.Slug,
		Categories:  categories,
		Tags:        tags,
		Schedule:    schedule,
	}, nil
}

func (g *Generator) record(ctx context.Context, jobID, promptType, prompt, response string) {
	if g.recorder == nil || jobID == "" {
		return
	}
	entry := &models.PromptLogEntry{
		JobID:        jobID,
		PromptType:   promptType,
		PromptText:   prompt,
		ResponseText: response,
	}
	if err := g.recorder.Append(ctx, entry); err != nil {
		// Audit logging is best effort; the workflow does not depend on it.
		g.log.Warn().Err(err).Str("job_id", jobID).Msg("Failed to append prompt log")
	}
}
