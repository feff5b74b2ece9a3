package conference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultTavilyBaseURL = "https://api.tavily.com"

// conferenceDomains restricts web search to medical society and trade
// press sites so results stay on topic.
var conferenceDomains = []string{
	"asco.org", "esmo.org", "acc.org", "aacr.org", "aha.org",
	"aan.org", "easl.eu", "aua.org", "ash.org", "medscape.com",
	"medpagetoday.com", "healio.com",
}

// TavilyClient performs web searches using direct HTTP calls to the
// Tavily API.
type TavilyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTavilyClient creates a new Tavily client. baseURL defaults to the
// public API if empty.
func NewTavilyClient(apiKey, baseURL string) *TavilyClient {
	if baseURL == "" {
		baseURL = defaultTavilyBaseURL
	}
	return &TavilyClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

type tavilySearchRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content"`
	MaxResults        int      `json:"max_results"`
}

type tavilySearchResponse struct {
	Answer  string         `json:"answer"`
	Results []TavilyResult `json:"results"`
}

// TavilyResult is one web search hit.
type TavilyResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date"`
}

// SearchOutcome is a completed Tavily search: the generated summary
// answer plus individual results.
type SearchOutcome struct {
	Answer  string
	Results []TavilyResult
}

// Search runs one web search restricted to the conference domains.
func (c *TavilyClient) Search(ctx context.Context, query string) (*SearchOutcome, error) {
	reqBody := tavilySearchRequest{
		APIKey:            c.apiKey,
		Query:             query,
		SearchDepth:       "advanced",
		IncludeAnswer:     true,
		IncludeDomains:    conferenceDomains,
		IncludeRawContent: false,
		MaxResults:        5,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	url := fmt.Sprintf("%s/search", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tavily response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var searchResp tavilySearchResponse
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tavily response: %w", err)
	}

	return &SearchOutcome{
		Answer:  searchResp.Answer,
		Results: searchResp.Results,
	}, nil
}
