package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/openai"
	"github.com/wp-autopub/pkg/slug"
)

// ImageGenerator produces the featured image for a topic.
type ImageGenerator interface {
	CreateFeaturedImage(ctx context.Context, topic string) (*models.ImageInfo, error)
}

// OpenAIImageGenerator implements ImageGenerator against the DALL-E endpoint.
type OpenAIImageGenerator struct {
	endpoint   string
	model      string
	apiKey     string
	imageDir   string
	chat       *openai.Client
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ImageGenerator = (*OpenAIImageGenerator)(nil)

// NewImageGenerator builds the DALL-E backed generator.
func NewImageGenerator(cfg *config.Config, log zerolog.Logger) *OpenAIImageGenerator {
	return &OpenAIImageGenerator{
		endpoint: strings.TrimRight(cfg.OpenAI.Endpoint, "/"),
		model:    cfg.OpenAI.ImageModel,
		apiKey:   cfg.OpenAI.APIKey,
		imageDir: cfg.Content.ImageDir,
		chat:     openai.NewClient(cfg.OpenAI),
		httpClient: &http.Client{
			Timeout: cfg.OpenAI.Timeout,
		},
		log: log.With().Str("component", "image-generator").Logger(),
	}
}

// CreateFeaturedImage generates, downloads, and optimizes the featured image,
// then derives alt text for it.
func (g *OpenAIImageGenerator) CreateFeaturedImage(ctx context.Context, topic string) (*models.ImageInfo, error) {
	prompt := fmt.Sprintf("A modern, professional illustration representing %s", topic)

	imageURL, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	outputPath := filepath.Join(g.imageDir, slug.Make(topic)+"-featured.jpg")
	if err := g.download(ctx, imageURL, outputPath); err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}

	altText, err := g.generateAltText(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("generate alt text: %w", err)
	}

	return &models.ImageInfo{
		Path:          outputPath,
		Alt:           altText,
		UseAsFeatured: true,
	}, nil
}

// generate requests one image and returns its temporary URL.
func (g *OpenAIImageGenerator) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":   g.model,
		"prompt":  prompt,
		"size":    "1024x1024",
		"quality": "standard",
		"n":       1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal image payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("image response contained no data")
	}

	return result.Data[0].URL, nil
}

// download fetches the generated image and re-encodes it as a compressed JPEG.
func (g *OpenAIImageGenerator) download(ctx context.Context, url, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("image download failed: %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	return nil
}

func (g *OpenAIImageGenerator) generateAltText(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(`Write alt text for a featured image on the topic %q.
- SEO friendly
- accessible description
- under 50 characters

Return only the alt text:`, topic)

	altText, err := g.chat.Complete(ctx, prompt, 0.3)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(altText), nil
}
