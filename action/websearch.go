package action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WebSearch queries the DuckDuckGo instant-answer API and returns a short
// textual summary of the results. Network and parse failures surface as
// *InvocationError so the loop records them instead of aborting the run.
type WebSearch struct {
	client  *http.Client
	baseURL string
	maxHits int
}

// WebSearchOptions configures a WebSearch action.
type WebSearchOptions struct {
	// Client overrides the HTTP client (timeouts, proxies, test doubles).
	Client *http.Client
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// MaxHits caps the number of related topics rendered into the observation.
	MaxHits int
}

// NewWebSearch creates a web search action with a 10 second default timeout.
func NewWebSearch(optFns ...func(o *WebSearchOptions)) *WebSearch {
	opts := WebSearchOptions{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: "https://api.duckduckgo.com/",
		MaxHits: 5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WebSearch{client: opts.Client, baseURL: opts.BaseURL, maxHits: opts.MaxHits}
}

// Name implements Action.
func (w *WebSearch) Name() string { return "web_search" }

// Description implements Action.
func (w *WebSearch) Description() string {
	return "Search the web for a query and return a summary of the top results."
}

// Parameters implements Action.
func (w *WebSearch) Parameters() []Parameter {
	return []Parameter{
		{Name: "query", DType: "string", Description: "The search query to run."},
	}
}

// OutputType implements Action.
func (w *WebSearch) OutputType() string { return "string" }

type duckResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Act implements Action.
func (w *WebSearch) Act(ctx context.Context, args map[string]any) (Observation, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", &InvocationError{Action: w.Name(), Err: fmt.Errorf("missing query input")}
	}

	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1", w.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &InvocationError{Action: w.Name(), Err: err}
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", &InvocationError{Action: w.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &InvocationError{Action: w.Name(), Err: fmt.Errorf("search returned status %d", resp.StatusCode)}
	}

	var parsed duckResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &InvocationError{Action: w.Name(), Err: fmt.Errorf("decode search response: %w", err)}
	}

	var b strings.Builder
	if parsed.AbstractText != "" {
		fmt.Fprintf(&b, "%s (%s)\n", parsed.AbstractText, parsed.AbstractURL)
	}
	hits := 0
	for _, topic := range parsed.RelatedTopics {
		if topic.Text == "" || hits >= w.maxHits {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s)\n", topic.Text, topic.FirstURL)
		hits++
	}
	if b.Len() == 0 {
		return Observation(fmt.Sprintf("No results found for %q.", query)), nil
	}
	return Observation(strings.TrimRight(b.String(), "\n")), nil
}
