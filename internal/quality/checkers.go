package quality

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wp-autopub/internal/openai"
)

// SpellChecker returns one correction suggestion per found error.
type SpellChecker interface {
	CheckSpelling(ctx context.Context, text string) ([]string, error)
}

// GrammarChecker returns at most one issue description when problems exist.
type GrammarChecker interface {
	CheckGrammar(ctx context.Context, text string) ([]string, error)
}

// PlagiarismChecker returns a similarity score in [0,100].
type PlagiarismChecker interface {
	CheckPlagiarism(ctx context.Context, text string) (float64, error)
}

// LinkChecker returns every broken or unreachable outbound link in the body.
type LinkChecker interface {
	CheckLinks(ctx context.Context, htmlContent string) ([]string, error)
}

const checkerTextLimit = 2000

// OpenAISpellChecker delegates spelling to a chat model.
type OpenAISpellChecker struct {
	chat *openai.Client
}

var _ SpellChecker = (*OpenAISpellChecker)(nil)

// NewOpenAISpellChecker builds a chat-backed spell checker.
func NewOpenAISpellChecker(chat *openai.Client) *OpenAISpellChecker {
	return &OpenAISpellChecker{chat: chat}
}

func (c *OpenAISpellChecker) CheckSpelling(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`Find spelling errors in the following text:

%s

If there are errors, return each one as a line in this format:
- [error] -> [correction]

If there are no errors, return exactly "NO ERRORS".`, truncate(text, checkerTextLimit))

	reply, err := c.chat.Complete(ctx, prompt, 0.1)
	if err != nil {
		return nil, fmt.Errorf("spell check: %w", err)
	}

	if strings.Contains(reply, "NO ERRORS") {
		return nil, nil
	}

	var errorsFound []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.Contains(line, "->") {
			errorsFound = append(errorsFound, strings.TrimSpace(line))
		}
	}
	return errorsFound, nil
}

// OpenAIGrammarChecker delegates grammar to a chat model. It reports either
// nothing or a single combined description.
type OpenAIGrammarChecker struct {
	chat *openai.Client
}

var _ GrammarChecker = (*OpenAIGrammarChecker)(nil)

// NewOpenAIGrammarChecker builds a chat-backed grammar checker.
func NewOpenAIGrammarChecker(chat *openai.Client) *OpenAIGrammarChecker {
	return &OpenAIGrammarChecker{chat: chat}
}

func (c *OpenAIGrammarChecker) CheckGrammar(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`Find grammar problems in the following text:

%s

Describe any grammar problems briefly.
If there are none, return exactly "NO GRAMMAR ERRORS".`, truncate(text, checkerTextLimit))

	reply, err := c.chat.Complete(ctx, prompt, 0.1)
	if err != nil {
		return nil, fmt.Errorf("grammar check: %w", err)
	}

	if strings.Contains(reply, "NO GRAMMAR ERRORS") {
		return nil, nil
	}
	return []string{strings.TrimSpace(reply)}, nil
}

// WebPlagiarismChecker samples distinctive sentences and probes a search
// engine for near matches.
type WebPlagiarismChecker struct {
	searchURL  string
	httpClient *http.Client
}

var _ PlagiarismChecker = (*WebPlagiarismChecker)(nil)

// NewWebPlagiarismChecker builds the search-based checker. An empty searchURL
// selects Google.
func NewWebPlagiarismChecker(searchURL string) *WebPlagiarismChecker {
	if searchURL == "" {
		searchURL = "https://www.google.com/search"
	}
	return &WebPlagiarismChecker{
		searchURL: searchURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

var sentenceSplit = regexp.MustCompile(`[.!?]\s+`)

func (c *WebPlagiarismChecker) CheckPlagiarism(ctx context.Context, text string) (float64, error) {
	sentences := extractSentences(text)
	if len(sentences) == 0 {
		return 0, nil
	}

	// Only probe a few sentences to bound the number of outbound calls.
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}

	var total float64
	for _, sentence := range sentences {
		total += c.sentenceSimilarity(ctx, sentence)
	}
	return total / float64(len(sentences)), nil
}

func extractSentences(htmlText string) []string {
	clean := stripHTML(htmlText)

	var sentences []string
	for _, s := range sentenceSplit.Split(clean, -1) {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			sentences = append(sentences, s)
		}
		if len(sentences) == 5 {
			break
		}
	}
	return sentences
}

func (c *WebPlagiarismChecker) sentenceSimilarity(ctx context.Context, sentence string) float64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL, nil)
	if err != nil {
		return 0
	}
	q := req.URL.Query()
	q.Set("q", fmt.Sprintf("%q", sentence))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Unreachable search engine means no evidence of similarity.
		return 0
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0
	}
	if strings.Contains(doc.Text(), "did not match") {
		return 0
	}
	return 30
}

// HeadLinkChecker verifies outbound links with HEAD requests.
type HeadLinkChecker struct {
	httpClient *http.Client
}

var _ LinkChecker = (*HeadLinkChecker)(nil)

// NewHeadLinkChecker builds a link checker with a per-request timeout.
func NewHeadLinkChecker(timeout time.Duration) *HeadLinkChecker {
	return &HeadLinkChecker{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckLinks extracts href targets from the body and HEAD-requests each
// external one. A failed request or 4xx/5xx status marks the link broken.
func (c *HeadLinkChecker) CheckLinks(ctx context.Context, htmlContent string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var brokenLinks []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		url, _ := sel.Attr("href")
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return
		}
		if !c.reachable(ctx, url) {
			brokenLinks = append(brokenLinks, url)
		}
	})

	return brokenLinks, nil
}

func (c *HeadLinkChecker) reachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusBadRequest
}

// stripHTML returns the text content of an HTML fragment.
func stripHTML(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}
	return doc.Text()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
