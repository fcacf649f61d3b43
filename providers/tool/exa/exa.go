package exa

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/carlmei/promptcache/core/config"
	"github.com/carlmei/promptcache/core/cost"
	"github.com/carlmei/promptcache/internal/utils"
	"github.com/carlmei/promptcache/providers/tool"
)

const (
	defaultBaseURL = "https://api.exa.ai"
	defaultResults = 10
	maxResults     = 100

	// summaryResults caps how many hits go into the model-facing summary;
	// more than a handful just burns input tokens.
	summaryResults = 10
	previewChars   = 200
)

// searchURL is swapped out in tests.
var searchURL = defaultBaseURL + "/search"

// NewExaSearchTool returns a [tool.Tool] performing semantic web search via
// the Exa API. Results come back as a compact text summary plus structured
// hits, sized for use as tool output in a conversation. The EXA_API_KEY
// environment variable must be set.
func NewExaSearchTool() *tool.Tool[SearchInput, SearchOutput] {
	return tool.NewTool[SearchInput, SearchOutput](
		"ExaSearch",
		Search,
		tool.WithDescription("Search the web using Exa's AI-native semantic search engine. Works well for research papers, technical content, news, company information, and GitHub repos. Returns a summary of top results with titles, URLs, and content previews. Requires EXA_API_KEY environment variable."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.003,
			Currency:                "USD",
			CostDescription:         "per neural search query",
			Accuracy:                0.93,
			AverageDurationInMillis: 1000,
		}),
	)
}

// searchRequest is the wire shape of an Exa /search call.
type searchRequest struct {
	Query              string          `json:"query"`
	Type               string          `json:"type"`
	NumResults         int             `json:"numResults"`
	IncludeDomains     []string        `json:"includeDomains,omitempty"`
	ExcludeDomains     []string        `json:"excludeDomains,omitempty"`
	StartPublishedDate string          `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string          `json:"endPublishedDate,omitempty"`
	Category           string          `json:"category,omitempty"`
	Contents           *contentsOption `json:"contents,omitempty"`
}

type contentsOption struct {
	Text       bool              `json:"text,omitempty"`
	Highlights *highlightsOption `json:"highlights,omitempty"`
}

type highlightsOption struct {
	NumSentences     int `json:"numSentences"`
	HighlightsPerURL int `json:"highlightsPerUrl"`
}

// Search runs one semantic search and renders the hits into [SearchOutput].
func Search(ctx context.Context, input SearchInput) (SearchOutput, error) {
	apiKey, err := config.Require(config.EnvExaAPIKey)
	if err != nil {
		return SearchOutput{}, err
	}

	response, err := postSearch(ctx, apiKey, buildRequest(input))
	if err != nil {
		return SearchOutput{}, err
	}

	results := make([]SearchResult, 0, len(response.Results))
	for _, item := range response.Results {
		results = append(results, SearchResult{
			Title:         item.Title,
			URL:           item.URL,
			PublishedDate: item.PublishedDate,
			Author:        item.Author,
			Text:          item.Text,
			Highlights:    item.Highlights,
		})
	}

	return SearchOutput{
		Query:   input.Query,
		Summary: renderSummary(input.Query, results),
		Results: results,
	}, nil
}

func buildRequest(input SearchInput) searchRequest {
	request := searchRequest{
		Query:              input.Query,
		Type:               input.Type,
		NumResults:         input.NumResults,
		IncludeDomains:     input.IncludeDomains,
		ExcludeDomains:     input.ExcludeDomains,
		StartPublishedDate: input.StartPublishedDate,
		EndPublishedDate:   input.EndPublishedDate,
		Category:           input.Category,
	}
	if request.Type == "" {
		request.Type = "auto"
	}
	if request.NumResults <= 0 {
		request.NumResults = defaultResults
	}
	if request.NumResults > maxResults {
		request.NumResults = maxResults
	}
	if input.IncludeText || input.IncludeHighlights {
		contents := &contentsOption{Text: input.IncludeText}
		if input.IncludeHighlights {
			contents.Highlights = &highlightsOption{NumSentences: 3, HighlightsPerURL: 3}
		}
		request.Contents = contents
	}
	return request
}

// postSearch sends the request and maps non-2xx responses onto the API's own
// error message when it provides one.
func postSearch(ctx context.Context, apiKey string, request searchRequest) (*searchResponse, error) {
	_, response, err := utils.DoPostSync[searchResponse](ctx, &http.Client{}, searchURL, "", request,
		utils.HeaderOption{Key: "x-api-key", Value: apiKey},
		utils.HeaderOption{Key: "Accept", Value: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	return response, nil
}

// renderSummary formats the top hits as a numbered list the model can read
// directly, preferring a highlight over a raw text preview per hit.
func renderSummary(query string, results []SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'. Try a different query or adjust filters.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d results:", len(results))
	for i, r := range results {
		if i >= summaryResults {
			break
		}
		fmt.Fprintf(&b, "\n\n%d. %s\n   URL: %s", i+1, r.Title, r.URL)
		if r.Author != "" {
			fmt.Fprintf(&b, "\n   Author: %s", r.Author)
		}
		if r.PublishedDate != "" {
			fmt.Fprintf(&b, "\n   Published: %s", r.PublishedDate)
		}
		switch {
		case len(r.Highlights) > 0:
			fmt.Fprintf(&b, "\n   Highlight: %s", utils.TruncateString(r.Highlights[0], previewChars))
		case r.Text != "":
			fmt.Fprintf(&b, "\n   Preview: %s", utils.TruncateString(r.Text, previewChars))
		}
	}
	return b.String()
}
