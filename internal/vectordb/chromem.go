package vectordb

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/zoomrx/agastya/internal/embeddings"
)

const collectionName = "hcp_knowledge_base"

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedder:   embedder,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	if count := s.collection.Count(); limit > count && count > 0 {
		limit = count
	} else if count == 0 {
		return nil, nil
	}

	where := buildWhereClause(filter)

	results, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}

	return searchResults, nil
}

func (s *ChromemStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	where := map[string]string{"document_id": documentID}
	return s.collection.Delete(ctx, where, nil)
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+"/chromem.gob.gz", true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	err := s.db.ImportFromFile(dir+"/chromem.gob.gz", "")
	if err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// metadataToMap converts DocumentMetadata to a flat map[string]string for chromem.
func metadataToMap(m DocumentMetadata) map[string]string {
	return map[string]string{
		"title":            m.Title,
		"source":           m.Source,
		"publication_date": m.PublicationDate,
		"url":              m.URL,
		"document_id":      m.DocumentID,
		"chunk_index":      strconv.Itoa(m.ChunkIndex),
	}
}

// mapToMetadata converts a flat map[string]string back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	chunkIndex, _ := strconv.Atoi(m["chunk_index"])

	return DocumentMetadata{
		Title:           m["title"],
		Source:          m["source"],
		PublicationDate: m["publication_date"],
		URL:             m["url"],
		DocumentID:      m["document_id"],
		ChunkIndex:      chunkIndex,
	}
}

// buildWhereClause converts a SearchFilter to a chromem where clause.
func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.Source != nil {
		where["source"] = *filter.Source
	}
	if filter.DocumentID != nil {
		where["document_id"] = *filter.DocumentID
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
