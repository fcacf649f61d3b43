package textarchive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/carlmei/promptcache/core/cost"
	"github.com/carlmei/promptcache/internal/utils"
	"github.com/carlmei/promptcache/providers/tool"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value.
	DefaultUserAgent = "promptcache-textarchive-tool/1.0"
	// MaxBodySize is the maximum response body size (10MB). Plenty for the
	// plain-text archives this tool targets.
	MaxBodySize = 10 * 1024 * 1024
	// DefaultMaxChars is the character cap applied when the caller does not
	// supply one. Large enough to hold a full public-domain novel.
	DefaultMaxChars = 200_000
)

// Input selects the document to fetch and how much of it to keep.
type Input struct {
	// URL of a publicly accessible text, e.g. a Project Gutenberg plain-text
	// ebook URL.
	URL string `json:"url" jsonschema:"description=URL of a publicly accessible text document"`

	// MaxChars truncates the returned text to this many characters.
	// Zero or negative applies DefaultMaxChars.
	MaxChars int `json:"max_chars,omitempty" jsonschema:"description=Maximum number of characters to return"`

	// TimeoutSeconds overrides the default request timeout.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" jsonschema:"description=Request timeout in seconds"`
}

// Output carries the (possibly truncated) document text.
type Output struct {
	URL        string `json:"url" jsonschema:"description=The URL the document was fetched from"`
	Text       string `json:"text" jsonschema:"description=The document text, truncated to the character limit"`
	TotalChars int    `json:"total_chars" jsonschema:"description=Character count of the full document before truncation"`
	Truncated  bool   `json:"truncated" jsonschema:"description=Whether the text was cut at the character limit"`
}

// NewTextArchiveTool returns a [tool.Tool] that downloads a public-domain
// text and truncates it to a character budget. The typical use is loading a
// large reference document once and reusing it as a cached system segment
// across many requests.
func NewTextArchiveTool() *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		"TextArchiveFetch",
		Fetch,
		tool.WithDescription("Downloads a publicly accessible text document (for example a Project Gutenberg plain-text ebook) and returns its content truncated to a character limit. HTML pages are converted to Markdown. Use it to load large reference texts into the conversation."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.0, // Free - local HTTP client
			Currency:                "USD",
			CostDescription:         "local HTTP request",
			Accuracy:                0.98,
			AverageDurationInMillis: 700,
		}),
	)
}

// Fetch retrieves the document at input.URL and returns its text, truncated
// to input.MaxChars characters.
//
// Partial URLs (e.g. "gutenberg.org/cache/epub/1342/pg1342.txt") are
// normalised by prepending "https://". Responses served as HTML are converted
// to Markdown before truncation; everything else is treated as plain text.
// The body read is capped at [MaxBodySize] bytes.
//
// Truncation counts characters (runes), not bytes, so a multi-byte rune is
// never split. [Output.TotalChars] reports the pre-truncation length and
// [Output.Truncated] whether the cap was hit.
func Fetch(ctx context.Context, input Input) (Output, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return Output{}, fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	timeout := DefaultTimeout
	if input.TimeoutSeconds > 0 {
		timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, body, err := utils.DoGetSync(ctxWithTimeout, &http.Client{}, url, MaxBodySize,
		utils.HeaderOption{Key: "User-Agent", Value: DefaultUserAgent},
	)
	if err != nil {
		return Output{}, fmt.Errorf("failed to fetch document: %w", err)
	}

	text := string(body)
	if isHTML(response, text) {
		markdown, err := htmltomarkdown.ConvertString(text)
		if err != nil {
			return Output{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		text = markdown
	}

	truncated, totalChars, wasCut := truncateChars(text, input.MaxChars)

	return Output{
		URL:        url,
		Text:       truncated,
		TotalChars: totalChars,
		Truncated:  wasCut,
	}, nil
}

// isHTML reports whether the response should be treated as an HTML page.
// The Content-Type header decides; a leading doctype or <html tag is the
// fallback for servers that mislabel their content.
func isHTML(response *http.Response, body string) bool {
	if response != nil {
		contentType := response.Header.Get("Content-Type")
		if strings.Contains(contentType, "text/html") {
			return true
		}
		if contentType != "" && !strings.Contains(contentType, "text/html") {
			return false
		}
	}

	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// truncateChars cuts text to at most maxChars characters. Zero or negative
// maxChars applies DefaultMaxChars.
func truncateChars(text string, maxChars int) (string, int, bool) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	runes := []rune(text)
	totalChars := len(runes)
	if totalChars <= maxChars {
		return text, totalChars, false
	}
	return string(runes[:maxChars]), totalChars, true
}
