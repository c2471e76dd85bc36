package quality

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/models"
	"github.com/wp-autopub/internal/openai"
)

// QualityChecker is the gate the workflow consults before publication.
type QualityChecker interface {
	Check(ctx context.Context, content *models.PostContent) (*models.QualityCheckResult, error)
}

// Checker runs the weighted battery of checks. The score starts at 100 and is
// debited by each finding; only the final total is clamped to [0,100].
type Checker struct {
	cfg        config.QualityConfig
	spell      SpellChecker
	grammar    GrammarChecker
	plagiarism PlagiarismChecker
	links      LinkChecker
	log        zerolog.Logger
}

var _ QualityChecker = (*Checker)(nil)

// CheckerDeps wires the sub-checkers into the composite.
type CheckerDeps struct {
	Spell      SpellChecker
	Grammar    GrammarChecker
	Plagiarism PlagiarismChecker
	Links      LinkChecker
}

// New builds the composite checker with the default sub-checker battery.
func New(cfg *config.Config, log zerolog.Logger) *Checker {
	chat := openai.NewClient(cfg.OpenAI)
	return NewWithDeps(cfg.Quality, CheckerDeps{
		Spell:      NewOpenAISpellChecker(chat),
		Grammar:    NewOpenAIGrammarChecker(chat),
		Plagiarism: NewWebPlagiarismChecker(""),
		Links:      NewHeadLinkChecker(cfg.Quality.LinkCheckTimeout),
	}, log)
}

// NewWithDeps builds the composite from explicit sub-checkers.
func NewWithDeps(cfg config.QualityConfig, deps CheckerDeps, log zerolog.Logger) *Checker {
	return &Checker{
		cfg:        cfg,
		spell:      deps.Spell,
		grammar:    deps.Grammar,
		plagiarism: deps.Plagiarism,
		links:      deps.Links,
		log:        log.With().Str("component", "quality").Logger(),
	}
}

// Check evaluates the content. A sub-checker error fails the whole evaluation;
// content merely scoring low is not an error.
func (c *Checker) Check(ctx context.Context, content *models.PostContent) (*models.QualityCheckResult, error) {
	var issues []string
	var suggestions []string
	score := 100.0

	// Word count, always on.
	wordCount := countWords(content.ContentHTML)
	if wordCount < c.cfg.MinWordCount {
		issues = append(issues, fmt.Sprintf("content is too short (%d words, minimum %d)", wordCount, c.cfg.MinWordCount))
		score -= 20
	} else if wordCount > c.cfg.MaxWordCount {
		issues = append(issues, fmt.Sprintf("content is too long (%d words, maximum %d)", wordCount, c.cfg.MaxWordCount))
		score -= 10
	}

	if c.cfg.SpellCheckEnabled && c.spell != nil {
		spellErrors, err := c.spell.CheckSpelling(ctx, content.ContentHTML)
		if err != nil {
			return nil, err
		}
		issues = append(issues, spellErrors...)
		score -= float64(len(spellErrors)) * 5
	}

	if c.grammar != nil {
		grammarErrors, err := c.grammar.CheckGrammar(ctx, content.ContentHTML)
		if err != nil {
			return nil, err
		}
		issues = append(issues, grammarErrors...)
		score -= float64(len(grammarErrors)) * 3
	}

	if c.cfg.PlagiarismCheckEnabled && c.plagiarism != nil {
		similarity, err := c.plagiarism.CheckPlagiarism(ctx, content.ContentHTML)
		if err != nil {
			return nil, err
		}
		if similarity > 50 {
			issues = append(issues, fmt.Sprintf("high similarity detected: %.1f%%", similarity))
			score -= similarity / 2
		}
	}

	if c.links != nil {
		brokenLinks, err := c.links.CheckLinks(ctx, content.ContentHTML)
		if err != nil {
			return nil, err
		}
		for _, link := range brokenLinks {
			issues = append(issues, "broken link: "+link)
		}
		score -= float64(len(brokenLinks)) * 10
	}

	// SEO checks, always on. Lengths count characters, not bytes.
	if utf8.RuneCountInString(content.Excerpt) < 50 {
		issues = append(issues, "meta description is too short")
		score -= 5
	}
	if utf8.RuneCountInString(content.Slug) > 50 {
		issues = append(issues, "slug is too long")
		score -= 3
	}

	// Advisory only; never affects the score.
	if wordCount < 1000 {
		suggestions = append(suggestions, "add more detailed content to give readers more value")
	}
	if len(content.Images) == 0 {
		suggestions = append(suggestions, "add visual elements to improve the reader experience")
	}

	finalScore := clamp(score, 0, 100)
	passed := finalScore >= 70 && len(issues) <= 3

	c.log.Debug().
		Float64("score", finalScore).
		Bool("passed", passed).
		Int("issues", len(issues)).
		Int("word_count", wordCount).
		Msg("Quality check completed")

	return &models.QualityCheckResult{
		Passed:      passed,
		Score:       finalScore,
		Issues:      issues,
		Suggestions: suggestions,
	}, nil
}

// countWords strips markup and counts whitespace-delimited tokens.
func countWords(htmlContent string) int {
	return len(strings.Fields(stripHTML(htmlContent)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
