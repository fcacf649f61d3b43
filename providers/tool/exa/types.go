package exa

// SearchInput holds the arguments the model supplies for a search call.
// The date filters use ISO 8601 (YYYY-MM-DD).
type SearchInput struct {
	Query              string   `json:"query" jsonschema:"description=The search query to perform,required"`
	Type               string   `json:"type,omitempty" jsonschema:"description=Search type: neural (embedding-based) auto (default) or fast (optimized for speed),enum=neural,enum=auto,enum=fast"`
	NumResults         int      `json:"num_results,omitempty" jsonschema:"description=Number of results to return (default 10 max 100)"`
	IncludeDomains     []string `json:"include_domains,omitempty" jsonschema:"description=Only return results from these domains"`
	ExcludeDomains     []string `json:"exclude_domains,omitempty" jsonschema:"description=Never return results from these domains"`
	StartPublishedDate string   `json:"start_published_date,omitempty" jsonschema:"description=Only results published after this date"`
	EndPublishedDate   string   `json:"end_published_date,omitempty" jsonschema:"description=Only results published before this date"`
	Category           string   `json:"category,omitempty" jsonschema:"description=Category filter for focused results,enum=company,enum=research paper,enum=news,enum=pdf,enum=github,enum=personal site"`
	IncludeText        bool     `json:"include_text,omitempty" jsonschema:"description=Include full page text in results"`
	IncludeHighlights  bool     `json:"include_highlights,omitempty" jsonschema:"description=Include key sentence highlights in results"`
}

// SearchOutput is what the model sees: a preformatted summary plus the
// structured hits behind it.
type SearchOutput struct {
	Query   string         `json:"query" jsonschema:"description=The original search query"`
	Summary string         `json:"summary" jsonschema:"description=Formatted summary of the top results"`
	Results []SearchResult `json:"results" jsonschema:"description=Structured search results"`
}

// SearchResult is a single hit.
type SearchResult struct {
	Title         string   `json:"title" jsonschema:"description=Title of the result"`
	URL           string   `json:"url" jsonschema:"description=URL of the result"`
	PublishedDate string   `json:"published_date,omitempty" jsonschema:"description=Publication date"`
	Author        string   `json:"author,omitempty" jsonschema:"description=Author of the content"`
	Text          string   `json:"text,omitempty" jsonschema:"description=Full text content when requested"`
	Highlights    []string `json:"highlights,omitempty" jsonschema:"description=Key sentence highlights when requested"`
}

// searchResponse is the raw /search response body.
type searchResponse struct {
	Results            []searchResponseItem `json:"results"`
	ResolvedSearchType string               `json:"resolvedSearchType,omitempty"`
	RequestID          string               `json:"requestId,omitempty"`
}

type searchResponseItem struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Author        string   `json:"author,omitempty"`
	Text          string   `json:"text,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
}
