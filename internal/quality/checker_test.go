package quality

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wp-autopub/internal/config"
	"github.com/wp-autopub/internal/models"
)

type fakeSpell struct {
	errs []string
	err  error
}

func (f *fakeSpell) CheckSpelling(ctx context.Context, text string) ([]string, error) {
	return f.errs, f.err
}

type fakeGrammar struct {
	errs []string
	err  error
}

func (f *fakeGrammar) CheckGrammar(ctx context.Context, text string) ([]string, error) {
	return f.errs, f.err
}

type fakePlagiarism struct {
	similarity float64
	err        error
	calls      int
}

func (f *fakePlagiarism) CheckPlagiarism(ctx context.Context, text string) (float64, error) {
	f.calls++
	return f.similarity, f.err
}

type fakeLinks struct {
	broken []string
	err    error
}

func (f *fakeLinks) CheckLinks(ctx context.Context, htmlContent string) ([]string, error) {
	return f.broken, f.err
}

func testQualityConfig() config.QualityConfig {
	return config.QualityConfig{
		MinWordCount:           500,
		MaxWordCount:           3000,
		SpellCheckEnabled:      true,
		PlagiarismCheckEnabled: true,
		LinkCheckTimeout:       5 * time.Second,
	}
}

func newTestChecker(cfg config.QualityConfig, deps CheckerDeps) *Checker {
	return NewWithDeps(cfg, deps, zerolog.Nop())
}

// htmlWithWords produces a body with exactly n words wrapped in paragraphs.
func htmlWithWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return "<p>" + strings.Join(words, " ") + "</p>"
}

func goodContent(wordCount int) *models.PostContent {
	return &models.PostContent{
		Topic:       "Test topic",
		ContentHTML: htmlWithWords(wordCount),
		Excerpt:     strings.Repeat("A good excerpt that describes the article. ", 2),
		Slug:        "test-topic",
	}
}

func cleanDeps() CheckerDeps {
	return CheckerDeps{
		Spell:      &fakeSpell{},
		Grammar:    &fakeGrammar{},
		Plagiarism: &fakePlagiarism{},
		Links:      &fakeLinks{},
	}
}

func TestCheck_CleanContentScoresFull(t *testing.T) {
	checker := newTestChecker(testQualityConfig(), cleanDeps())

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if result.Score != 100 {
		t.Errorf("Expected score 100, got %.1f", result.Score)
	}
	if !result.Passed {
		t.Error("Clean content should pass")
	}
	if len(result.Issues) != 0 {
		t.Errorf("Expected no issues, got %v", result.Issues)
	}
}

func TestCheck_WordCountDebits(t *testing.T) {
	tests := []struct {
		name      string
		wordCount int
		wantScore float64
		wantIssue bool
	}{
		{"below minimum", 499, 80, true},
		{"at minimum", 500, 100, false},
		{"at maximum", 3000, 100, false},
		{"above maximum", 3001, 90, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := newTestChecker(testQualityConfig(), cleanDeps())
			result, err := checker.Check(context.Background(), goodContent(tt.wordCount))
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if result.Score != tt.wantScore {
				t.Errorf("Expected score %.0f, got %.1f", tt.wantScore, result.Score)
			}
			if (len(result.Issues) > 0) != tt.wantIssue {
				t.Errorf("Issue presence mismatch: %v", result.Issues)
			}
		})
	}
}

func TestCheck_SpellingDebitsPerError(t *testing.T) {
	deps := cleanDeps()
	deps.Spell = &fakeSpell{errs: []string{"teh -> the", "recieve -> receive"}}
	checker := newTestChecker(testQualityConfig(), deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 90 {
		t.Errorf("Expected score 90, got %.1f", result.Score)
	}
	if len(result.Issues) != 2 {
		t.Errorf("Expected 2 issues, got %v", result.Issues)
	}
}

func TestCheck_SpellCheckDisabled(t *testing.T) {
	cfg := testQualityConfig()
	cfg.SpellCheckEnabled = false
	deps := cleanDeps()
	deps.Spell = &fakeSpell{errs: []string{"teh -> the"}}
	checker := newTestChecker(cfg, deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("Disabled spell check should not debit, got %.1f", result.Score)
	}
}

func TestCheck_PlagiarismAboveThreshold(t *testing.T) {
	deps := cleanDeps()
	deps.Plagiarism = &fakePlagiarism{similarity: 80}
	checker := newTestChecker(testQualityConfig(), deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	// similarity/2 is debited when similarity exceeds 50
	if result.Score != 60 {
		t.Errorf("Expected score 60, got %.1f", result.Score)
	}
	if result.Passed {
		t.Error("High similarity should fail the gate")
	}
}

func TestCheck_PlagiarismBelowThresholdIgnored(t *testing.T) {
	deps := cleanDeps()
	deps.Plagiarism = &fakePlagiarism{similarity: 50}
	checker := newTestChecker(testQualityConfig(), deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("Similarity at threshold should not debit, got %.1f", result.Score)
	}
}

func TestCheck_PlagiarismDisabled(t *testing.T) {
	cfg := testQualityConfig()
	cfg.PlagiarismCheckEnabled = false
	plag := &fakePlagiarism{similarity: 90}
	deps := cleanDeps()
	deps.Plagiarism = plag
	checker := newTestChecker(cfg, deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if plag.calls != 0 {
		t.Error("Disabled plagiarism checker should not run")
	}
	if result.Score != 100 {
		t.Errorf("Expected score 100, got %.1f", result.Score)
	}
}

func TestCheck_BrokenLinksDebit(t *testing.T) {
	deps := cleanDeps()
	deps.Links = &fakeLinks{broken: []string{"https://dead.example.com", "https://gone.example.com"}}
	checker := newTestChecker(testQualityConfig(), deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 80 {
		t.Errorf("Expected score 80, got %.1f", result.Score)
	}
	if !strings.HasPrefix(result.Issues[0], "broken link: ") {
		t.Errorf("Unexpected issue format: %s", result.Issues[0])
	}
}

func TestCheck_SEODebits(t *testing.T) {
	checker := newTestChecker(testQualityConfig(), cleanDeps())

	content := goodContent(1200)
	content.Excerpt = "too short"
	content.Slug = strings.Repeat("very-long-slug-", 5)

	result, err := checker.Check(context.Background(), content)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 92 {
		t.Errorf("Expected score 92, got %.1f", result.Score)
	}
	if len(result.Issues) != 2 {
		t.Errorf("Expected 2 issues, got %v", result.Issues)
	}
}

func TestCheck_ExcerptLengthCountsRunes(t *testing.T) {
	checker := newTestChecker(testQualityConfig(), cleanDeps())

	// 20 characters, 60 bytes; still shorter than 50 characters.
	content := goodContent(1200)
	content.Excerpt = strings.Repeat("블", 20)

	result, err := checker.Check(context.Background(), content)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 95 {
		t.Errorf("Expected score 95, got %.1f", result.Score)
	}
	if len(result.Issues) != 1 || result.Issues[0] != "meta description is too short" {
		t.Errorf("Expected short-excerpt issue, got %v", result.Issues)
	}
}

func TestCheck_ScoreClampedToZero(t *testing.T) {
	deps := cleanDeps()
	deps.Plagiarism = &fakePlagiarism{similarity: 100}
	deps.Links = &fakeLinks{broken: []string{"a", "b", "c", "d", "e"}}
	deps.Spell = &fakeSpell{errs: []string{"1 -> 2", "3 -> 4", "5 -> 6"}}
	checker := newTestChecker(testQualityConfig(), deps)

	content := goodContent(100)
	content.Excerpt = "x"

	result, err := checker.Check(context.Background(), content)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("Score should clamp to 0, got %.1f", result.Score)
	}
	if result.Passed {
		t.Error("Zero score must not pass")
	}
}

func TestCheck_IssueCountFailsHighScore(t *testing.T) {
	// Four cheap spelling errors keep the score at 80 but the issue
	// count alone fails the gate.
	deps := cleanDeps()
	deps.Spell = &fakeSpell{errs: []string{"a -> b", "c -> d", "e -> f", "g -> h"}}
	checker := newTestChecker(testQualityConfig(), deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 80 {
		t.Errorf("Expected score 80, got %.1f", result.Score)
	}
	if result.Passed {
		t.Error("Four issues should fail regardless of score")
	}
}

func TestCheck_ThreeIssuesStillPass(t *testing.T) {
	deps := cleanDeps()
	deps.Spell = &fakeSpell{errs: []string{"a -> b", "c -> d", "e -> f"}}
	checker := newTestChecker(testQualityConfig(), deps)

	result, err := checker.Check(context.Background(), goodContent(1200))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 85 {
		t.Errorf("Expected score 85, got %.1f", result.Score)
	}
	if !result.Passed {
		t.Error("Three issues at score 85 should pass")
	}
}

func TestCheck_SuggestionsDoNotAffectScore(t *testing.T) {
	cfg := testQualityConfig()
	checker := newTestChecker(cfg, cleanDeps())

	// 600 words passes the minimum but stays under the advisory 1000
	content := goodContent(600)
	result, err := checker.Check(context.Background(), content)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("Suggestions must not debit, got %.1f", result.Score)
	}
	if len(result.Suggestions) != 2 {
		t.Errorf("Expected word-count and image suggestions, got %v", result.Suggestions)
	}
}

func TestCheck_SubCheckerErrorPropagates(t *testing.T) {
	deps := cleanDeps()
	wantErr := errors.New("search engine unavailable")
	deps.Plagiarism = &fakePlagiarism{err: wantErr}
	checker := newTestChecker(testQualityConfig(), deps)

	_, err := checker.Check(context.Background(), goodContent(1200))
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected sub-checker error, got %v", err)
	}
}

func TestCheck_Idempotent(t *testing.T) {
	checker := newTestChecker(testQualityConfig(), cleanDeps())
	content := goodContent(499)

	first, err := checker.Check(context.Background(), content)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	second, err := checker.Check(context.Background(), content)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if first.Score != second.Score || first.Passed != second.Passed {
		t.Error("Repeated checks should yield identical verdicts")
	}
}

func TestHeadLinkChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	html := fmt.Sprintf(`<p>
		<a href="%s/ok">good</a>
		<a href="%s/missing">bad</a>
		<a href="/relative">internal</a>
		<a href="mailto:x@example.com">mail</a>
	</p>`, srv.URL, srv.URL)

	checker := NewHeadLinkChecker(2 * time.Second)
	broken, err := checker.CheckLinks(context.Background(), html)
	if err != nil {
		t.Fatalf("CheckLinks failed: %v", err)
	}

	if len(broken) != 1 {
		t.Fatalf("Expected 1 broken link, got %v", broken)
	}
	if broken[0] != srv.URL+"/missing" {
		t.Errorf("Unexpected broken link: %s", broken[0])
	}
}

func TestWebPlagiarismChecker(t *testing.T) {
	noMatch := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Your search did not match any documents.</body></html>`)
	}))
	defer noMatch.Close()

	match := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>About 1,200 results</body></html>`)
	}))
	defer match.Close()

	text := "<p>This is a sufficiently long first sentence for sampling. " +
		"Here is another long sentence that will also be sampled properly.</p>"

	checker := NewWebPlagiarismChecker(noMatch.URL)
	similarity, err := checker.CheckPlagiarism(context.Background(), text)
	if err != nil {
		t.Fatalf("CheckPlagiarism failed: %v", err)
	}
	if similarity != 0 {
		t.Errorf("Expected 0 similarity, got %.1f", similarity)
	}

	checker = NewWebPlagiarismChecker(match.URL)
	similarity, err = checker.CheckPlagiarism(context.Background(), text)
	if err != nil {
		t.Fatalf("CheckPlagiarism failed: %v", err)
	}
	if similarity != 30 {
		t.Errorf("Expected 30 similarity, got %.1f", similarity)
	}
}

func TestExtractSentences(t *testing.T) {
	html := "<p>Short. This sentence is long enough to keep. Another keeper sentence right here! Tiny. A third one that also clears the length bar?</p>"
	sentences := extractSentences(html)

	if len(sentences) != 3 {
		t.Fatalf("Expected 3 sentences, got %v", sentences)
	}
	for _, s := range sentences {
		if len(s) <= 10 {
			t.Errorf("Sentence under length bar kept: %q", s)
		}
	}
}
