// Package research retrieves medical literature context from the vector
// knowledge base for grounding research answers.
package research

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zoomrx/agastya/internal/vectordb"
)

// retrieveLimit is how many chunks the vector search pulls; only the top
// contextLimit make it into the prompt to keep the context window sane.
const (
	retrieveLimit = 30
	contextLimit  = 10
)

// Service turns a research query into formatted source blocks for the
// synthesis prompt. It satisfies the engine's Retriever interface.
type Service struct {
	store vectordb.VectorStore
}

// NewService creates a retriever over the given vector store.
func NewService(store vectordb.VectorStore) *Service {
	return &Service{store: store}
}

// Context searches the knowledge base and renders the best matches as
// numbered source blocks. An empty string means nothing relevant was found.
func (s *Service) Context(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	results, err := s.store.Search(ctx, query, retrieveLimit, nil)
	if err != nil {
		return "", fmt.Errorf("knowledge base search: %w", err)
	}
	if len(results) == 0 {
		log.Printf("research: no documents retrieved for %q", query)
		return "", nil
	}
	if len(results) > contextLimit {
		results = results[:contextLimit]
	}
	log.Printf("research: prepared context from %d documents", len(results))

	parts := make([]string, len(results))
	for i, r := range results {
		m := r.Document.Metadata
		title := m.Title
		if title == "" {
			title = fmt.Sprintf("Document %d", i+1)
		}
		source := m.Source
		if source == "" {
			source = "Unknown source"
		}
		pubDate := m.PublicationDate
		if pubDate == "" {
			pubDate = "Unknown date"
		}
		url := m.URL
		if url == "" {
			url = "#"
		}
		parts[i] = fmt.Sprintf("SOURCE %d:\nTitle: %s\nSource: %s\nPublication Date: %s\nURL: %s\nContent: %s\n",
			i+1, title, source, pubDate, url, r.Document.Content)
	}

	return strings.Join(parts, "\n\n---\n\n"), nil
}
