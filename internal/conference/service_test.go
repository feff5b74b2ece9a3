package conference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeSearcher struct {
	outcome   *SearchOutcome
	err       error
	lastQuery string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (*SearchOutcome, error) {
	f.lastQuery = query
	return f.outcome, f.err
}

func TestExtractConferenceName(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Tell me about the upcoming ASCO 2024 conference.", "asco 2024"},
		{"What was discussed at ESMO?", "esmo"},
		{"news from the american society of hematology 2025 meeting", "american society of hematology 2025"},
		{"When is the next AHA meeting?", "aha"},
		{"efficacy of the new mRNA vaccine trials", ""},
		{"what's new in cash flow analysis", ""},
		{"latest statin data", ""},
	}
	for _, tt := range tests {
		if got := extractConferenceName(tt.query); got != tt.want {
			t.Errorf("extractConferenceName(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestContextNamedConferenceSearch(t *testing.T) {
	search := &fakeSearcher{outcome: &SearchOutcome{
		Answer: "ASCO 2025 runs May 30 to June 3 in Chicago.",
		Results: []TavilyResult{
			{Title: "ASCO Annual Meeting", URL: "https://asco.org/meeting", Content: "Registration is open.", PublishedDate: "2025-01-10"},
			{Title: "", URL: "", Content: ""},
		},
	}}
	s := NewService(search, t.TempDir())

	got, err := s.Context(context.Background(), "When is ASCO 2025?")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(search.lastQuery, "asco 2025") {
		t.Errorf("search query = %q, want conference name in it", search.lastQuery)
	}
	for _, part := range []string{
		"SEARCH SUMMARY: ASCO 2025 runs May 30",
		"SEARCH RESULTS:",
		"[1] ASCO Annual Meeting",
		"URL: https://asco.org/meeting",
		"Date: 2025-01-10",
		"[2] No title",
		"URL: No URL",
		"Content: No content",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Context() missing %q in:\n%s", part, got)
		}
	}
}

func TestContextNamedConferenceNoSearcher(t *testing.T) {
	s := NewService(nil, t.TempDir())
	got, err := s.Context(context.Background(), "Tell me about ESMO 2025")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(got, "Web search is not available") {
		t.Errorf("Context() = %q, want unavailable message", got)
	}
}

func TestContextGenericConferenceSearch(t *testing.T) {
	search := &fakeSearcher{outcome: &SearchOutcome{
		Results: []TavilyResult{{Title: "Medical meetings 2025", URL: "https://medscape.com/x", Content: "A roundup."}},
	}}
	s := NewService(search, t.TempDir())

	got, err := s.Context(context.Background(), "any big medical congress coming up?")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(search.lastQuery, "upcoming major medical conferences") {
		t.Errorf("search query = %q, want generic conference search", search.lastQuery)
	}
	if !strings.Contains(got, "SEARCH SUMMARY: Information about upcoming and recent major medical conferences.") {
		t.Errorf("Context() missing default summary in:\n%s", got)
	}
}

func TestContextSearchErrorReportedInline(t *testing.T) {
	search := &fakeSearcher{err: context.DeadlineExceeded}
	s := NewService(search, t.TempDir())

	got, err := s.Context(context.Background(), "what happened at AACR")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(got, "Error performing web search") {
		t.Errorf("Context() = %q, want inline search error", got)
	}
}

func TestContextLocalDocumentFallback(t *testing.T) {
	dir := t.TempDir()
	past := "ASCO 2024 highlights: practice-changing lung cancer data."
	upcoming := "ESMO 2025: October 17-21, Berlin. Registration opens in March."
	if err := os.WriteFile(filepath.Join(dir, "past_conference_summary.txt"), []byte(past), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "upcoming_conference_schedule.txt"), []byte(upcoming), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewService(nil, dir)

	got, err := s.Context(context.Background(), "give me a summary of the previous meeting")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(got, past) {
		t.Errorf("Context() = %q, want past document content", got)
	}

	got, err = s.Context(context.Background(), "what does the upcoming conference schedule look like")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(got, upcoming) {
		t.Errorf("Context() = %q, want upcoming document content", got)
	}
}

func TestContextMissingDocumentReported(t *testing.T) {
	s := NewService(nil, t.TempDir())
	got, err := s.Context(context.Background(), "what is on the schedule for next month")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if !strings.Contains(got, "Could not read the document") {
		t.Errorf("Context() = %q, want unreadable-document note", got)
	}
}

func TestTavilyClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		var req tavilySearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.APIKey != "tvly-test" {
			t.Errorf("api_key = %q", req.APIKey)
		}
		if req.SearchDepth != "advanced" || !req.IncludeAnswer || req.MaxResults != 5 {
			t.Errorf("unexpected search params: %+v", req)
		}
		if len(req.IncludeDomains) == 0 {
			t.Error("include_domains empty")
		}
		json.NewEncoder(w).Encode(tavilySearchResponse{
			Answer: "a summary",
			Results: []TavilyResult{
				{Title: "t", URL: "u", Content: "c", PublishedDate: "2025-02-02"},
			},
		})
	}))
	defer srv.Close()

	client := NewTavilyClient("tvly-test", srv.URL)
	outcome, err := client.Search(context.Background(), "asco 2025 medical conference")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if outcome.Answer != "a summary" || len(outcome.Results) != 1 {
		t.Errorf("Search() = %+v", outcome)
	}
}

func TestTavilyClientSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewTavilyClient("bad-key", srv.URL)
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Error("Search() error = nil, want status error")
	}
}
