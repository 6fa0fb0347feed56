package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
)

const (
	literatureUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"
	braveSearchURL      = "https://api.search.brave.com/res/v1/web/search"
	maxExcerptChars     = 4000
)

var (
	reLitScript   = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	reLitStyle    = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	reLitTags     = regexp.MustCompile(`<[^>]+>`)
	reLitSpaces   = regexp.MustCompile(`[ \t]+`)
	reLitNewlines = regexp.MustCompile(`\n{3,}`)
)

// LiteratureSearchTool searches the web for chemistry literature and returns
// readable excerpts of the top hits. Pages are fetched concurrently; a page
// that fails to fetch degrades to its search snippet.
type LiteratureSearchTool struct {
	apiKey     string
	maxResults int
	httpClient *http.Client
}

// NewLiteratureSearchTool creates a LiteratureSearchTool.
// apiKey is the Brave Search subscription token; maxResults defaults to 3.
func NewLiteratureSearchTool(apiKey string, maxResults int) *LiteratureSearchTool {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &LiteratureSearchTool{
		apiKey:     apiKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *LiteratureSearchTool) Name() string { return string(ToolLiteratureSearch) }
func (t *LiteratureSearchTool) Description() string {
	return "Search the scientific literature and the web for information about a chemical " +
		"compound, reaction or technique. Input a search query, returns readable excerpts " +
		"from the most relevant pages with their sources."
}

func (t *LiteratureSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Search query"
			}
		},
		"required": ["query"]
	}`)
}

type literatureHit struct {
	Title   string
	URL     string
	Snippet string
	Excerpt string
}

func (t *LiteratureSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if t.apiKey == "" {
		return "Error: Literature search is not configured. Set the search API key in the config file.", nil
	}
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return "Error: Empty search query. Please input what to search for.", nil
	}

	hits, err := t.search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No results for: %s", query), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range hits {
		hit := &hits[i]
		g.Go(func() error {
			excerpt, err := t.fetchExcerpt(gctx, hit.URL)
			if err == nil {
				hit.Excerpt = excerpt
			}
			return nil
		})
	}
	_ = g.Wait()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Results for: %s\n\n", query)
	for i, hit := range hits {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, hit.Title, hit.URL)
		body := hit.Excerpt
		if body == "" {
			body = hit.Snippet
		}
		if body != "" {
			sb.WriteString(body)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

func (t *LiteratureSearchTool) search(ctx context.Context, query string) ([]literatureHit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveSearchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", t.maxResults))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: HTTP %d", resp.StatusCode)
	}

	var data struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]literatureHit, 0, t.maxResults)
	for _, r := range data.Web.Results {
		if len(hits) >= t.maxResults {
			break
		}
		if err := validateResultURL(r.URL); err != nil {
			continue
		}
		hits = append(hits, literatureHit{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return hits, nil
}

// fetchExcerpt downloads one page and extracts its readable text.
func (t *LiteratureSearchTool) fetchExcerpt(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", literatureUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}

	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	var text string
	if err == nil {
		text = stripTags(article.Content)
	} else {
		text = stripTags(string(body))
	}
	if len(text) > maxExcerptChars {
		text = text[:maxExcerptChars]
	}
	return text, nil
}

func validateResultURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing domain in URL")
	}
	return nil
}

// stripTags removes HTML markup and normalizes whitespace.
func stripTags(text string) string {
	text = reLitScript.ReplaceAllString(text, "")
	text = reLitStyle.ReplaceAllString(text, "")
	text = reLitTags.ReplaceAllString(text, "")
	text = reLitSpaces.ReplaceAllString(text, " ")
	text = reLitNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
