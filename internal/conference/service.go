// Package conference finds medical conference information: live web
// search over society domains when a Tavily key is configured, with
// local summary documents as the fallback.
package conference

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// knownConferences are the societies the assistant recognizes, acronym
// and full name. Matching is word-bounded so short acronyms never fire
// inside unrelated words.
var knownConferences = []string{
	"asco", "american society of clinical oncology",
	"esmo", "european society for medical oncology",
	"acc", "american college of cardiology",
	"ash", "american society of hematology",
	"aan", "american academy of neurology",
	"aha", "american heart association",
	"aacr", "american association for cancer research",
	"aua", "american urological association",
	"easl", "european association for the study of the liver",
}

var conferenceRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(knownConferences))
	for _, name := range knownConferences {
		res[name] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	}
	return res
}()

var yearRe = regexp.MustCompile(`20\d{2}`)

// localDoc is a static conference document used when web search is
// unavailable or the query names no specific conference.
type localDoc struct {
	file        string
	description string
	keywords    []string
}

var localDocs = map[string]localDoc{
	"past_conference": {
		file:        "past_conference_summary.txt",
		description: "a summary of a significant past medical conference (e.g., last year's ASCO or a major cardiology congress).",
		keywords:    []string{"past conference", "last year's conference", "previous meeting", "summary of"},
	},
	"upcoming_conference": {
		file:        "upcoming_conference_schedule.txt",
		description: "information about an upcoming major medical conference (e.g., next year's ESMO or a key neurology event).",
		keywords:    []string{"upcoming conference", "next conference", "future meeting", "schedule for"},
	},
}

// Searcher runs one conference web search.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchOutcome, error)
}

// Service is the conference capability. It satisfies the engine's
// ConferenceLookup interface. search may be nil when no API key is
// configured; the service then relies on local documents.
type Service struct {
	search  Searcher
	docsDir string
}

// NewService creates the conference service. docsDir holds the fallback
// summary documents.
func NewService(search Searcher, docsDir string) *Service {
	return &Service{search: search, docsDir: docsDir}
}

// extractConferenceName pulls a known conference, with an optional year,
// out of the query. The longest society match wins. Empty when the query
// names no known conference.
func extractConferenceName(query string) string {
	q := strings.ToLower(query)

	var matched string
	for _, name := range knownConferences {
		if conferenceRes[name].MatchString(q) && len(name) > len(matched) {
			matched = name
		}
	}
	if matched == "" {
		return ""
	}

	if year := yearRe.FindString(q); year != "" {
		return matched + " " + year
	}
	return matched
}

// Context resolves conference information for the query: a targeted web
// search for a named conference, a generic search for broad conference
// questions, and a local document otherwise.
func (s *Service) Context(ctx context.Context, query string) (string, error) {
	q := strings.ToLower(query)

	if name := extractConferenceName(query); name != "" {
		if s.search == nil {
			return "Web search is not available because the search API is not configured. " +
				"Please add TAVILY_API_KEY to your environment to enable web search capabilities.", nil
		}
		log.Printf("conference: detected %q, searching the web", name)
		searchQuery := name + " medical conference dates location venue registration deadlines " +
			"agenda speakers abstract submission official website"
		return s.webSearch(ctx, searchQuery, "")
	}

	generalTerms := []string{"conference", "meeting", "congress", "symposium"}
	if s.search != nil {
		for _, term := range generalTerms {
			if strings.Contains(q, term) {
				searchQuery := "upcoming major medical conferences healthcare 2024 2025 dates locations registration agenda"
				return s.webSearch(ctx, searchQuery,
					"Information about upcoming and recent major medical conferences.")
			}
		}
	}

	return s.localDocument(ctx, q)
}

// webSearch runs one search and renders it for the prompt. A failed
// search is reported in the context text so the model can explain it.
func (s *Service) webSearch(ctx context.Context, searchQuery, defaultSummary string) (string, error) {
	outcome, err := s.search.Search(ctx, searchQuery)
	if err != nil {
		log.Printf("conference: web search failed: %v", err)
		return fmt.Sprintf("Error performing web search: %v", err), nil
	}

	var sb strings.Builder
	switch {
	case outcome.Answer != "":
		sb.WriteString("SEARCH SUMMARY: " + outcome.Answer + "\n\n")
	case defaultSummary != "":
		sb.WriteString("SEARCH SUMMARY: " + defaultSummary + "\n\n")
	}

	sb.WriteString("SEARCH RESULTS:\n\n")
	for i, r := range outcome.Results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		url := r.URL
		if url == "" {
			url = "No URL"
		}
		date := r.PublishedDate
		if date == "" {
			date = "Unknown date"
		}
		content := r.Content
		if content == "" {
			content = "No content"
		}
		fmt.Fprintf(&sb, "[%d] %s\nURL: %s\nDate: %s\nContent: %s\n\n", i+1, title, url, date, content)
	}

	return sb.String(), nil
}

// localDocument picks the best-matching fallback document by keyword
// score. With no match and a working searcher it tries one last generic
// search before defaulting to the upcoming-conference document.
func (s *Service) localDocument(ctx context.Context, q string) (string, error) {
	var selected string
	best := 0
	for key, doc := range localDocs {
		score := 0
		for _, kw := range doc.keywords {
			if strings.Contains(q, kw) {
				score++
			}
		}
		// A direct document name in the query outranks keyword hits.
		if strings.Contains(q, strings.ReplaceAll(key, "_", " ")) {
			score += 10
		}
		if score > best {
			best = score
			selected = key
		}
	}

	if selected == "" {
		switch {
		case strings.Contains(q, "upcoming") || strings.Contains(q, "next") || strings.Contains(q, "future"):
			selected = "upcoming_conference"
		case strings.Contains(q, "past") || strings.Contains(q, "last") ||
			strings.Contains(q, "previous") || strings.Contains(q, "summary of"):
			selected = "past_conference"
		case s.search != nil:
			searchQuery := "major medical conferences for healthcare professionals upcoming 2024 2025 dates locations agenda registration"
			return s.webSearch(ctx, searchQuery, "General information about medical conferences.")
		default:
			selected = "upcoming_conference"
		}
	}

	doc := localDocs[selected]
	path := filepath.Join(s.docsDir, doc.file)
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("conference: reading %s: %v", path, err)
		return fmt.Sprintf("This document contains %s\n\nError: Could not read the document '%s'.",
			doc.description, doc.file), nil
	}

	return fmt.Sprintf("This document contains %s\n\n%s", doc.description, content), nil
}
