package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoomrx/agastya/internal/vectordb"
)

type fakeStore struct {
	results   []vectordb.SearchResult
	err       error
	lastQuery string
	lastLimit int
	added     []vectordb.Document
	deleted   []string
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []vectordb.Document) error {
	f.added = append(f.added, docs...)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, query string, limit int, filter *vectordb.SearchFilter) ([]vectordb.SearchResult, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.results, f.err
}

func (f *fakeStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}
func (f *fakeStore) Persist(ctx context.Context, dir string) error                   { return nil }
func (f *fakeStore) Load(ctx context.Context, dir string) error                      { return nil }
func (f *fakeStore) Count() int                                                      { return len(f.results) }

func result(id, title, content string) vectordb.SearchResult {
	return vectordb.SearchResult{
		Document: vectordb.Document{
			ID:      id,
			Content: content,
			Metadata: vectordb.DocumentMetadata{
				Title:           title,
				Source:          "NEJM",
				PublicationDate: "2024-03-12",
				URL:             "https://example.org/" + id,
				DocumentID:      id,
			},
		},
		Similarity: 0.8,
	}
}

func TestContextFormatsSources(t *testing.T) {
	store := &fakeStore{results: []vectordb.SearchResult{
		result("a", "Trial A", "Findings about drug A."),
		result("b", "Trial B", "Findings about drug B."),
	}}
	s := NewService(store)

	got, err := s.Context(context.Background(), "drug trials")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if store.lastLimit != retrieveLimit {
		t.Errorf("search limit = %d, want %d", store.lastLimit, retrieveLimit)
	}
	for _, part := range []string{
		"SOURCE 1:", "Title: Trial A", "SOURCE 2:", "Title: Trial B",
		"Source: NEJM", "Publication Date: 2024-03-12", "Content: Findings about drug A.",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Context() missing %q in:\n%s", part, got)
		}
	}
	if !strings.Contains(got, "\n\n---\n\n") {
		t.Error("Context() sources not separated by --- divider")
	}
}

func TestContextCapsAtTen(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 15; i++ {
		store.results = append(store.results, result(string(rune('a'+i)), "T", "c"))
	}
	s := NewService(store)

	got, err := s.Context(context.Background(), "q")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if strings.Contains(got, "SOURCE 11:") {
		t.Error("Context() included more than 10 sources")
	}
	if !strings.Contains(got, "SOURCE 10:") {
		t.Error("Context() dropped sources before the cap")
	}
}

func TestContextEmptyResults(t *testing.T) {
	s := NewService(&fakeStore{})
	got, err := s.Context(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if got != "" {
		t.Errorf("Context() = %q, want empty", got)
	}
}

func TestContextBlankQuery(t *testing.T) {
	store := &fakeStore{results: []vectordb.SearchResult{result("a", "T", "c")}}
	s := NewService(store)
	got, err := s.Context(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	if got != "" {
		t.Errorf("Context() = %q, want empty for blank query", got)
	}
	if store.lastQuery != "" {
		t.Error("blank query still hit the store")
	}
}

func TestContextSearchError(t *testing.T) {
	s := NewService(&fakeStore{err: errors.New("boom")})
	if _, err := s.Context(context.Background(), "q"); err == nil {
		t.Error("Context() error = nil, want wrapped search error")
	}
}

func TestContextFillsMissingMetadata(t *testing.T) {
	store := &fakeStore{results: []vectordb.SearchResult{{
		Document: vectordb.Document{ID: "x", Content: "bare chunk"},
	}}}
	s := NewService(store)

	got, err := s.Context(context.Background(), "q")
	if err != nil {
		t.Fatalf("Context() error: %v", err)
	}
	for _, part := range []string{"Document 1", "Unknown source", "Unknown date", "URL: #"} {
		if !strings.Contains(got, part) {
			t.Errorf("Context() missing placeholder %q in:\n%s", part, got)
		}
	}
}
