package vectordb

// Document represents a chunk of an ingested article to be stored and
// searched.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information about an article chunk.
type DocumentMetadata struct {
	Title           string
	Source          string
	PublicationDate string
	URL             string
	DocumentID      string // Shared by all chunks of one article.
	ChunkIndex      int
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter allows narrowing search results by metadata fields.
type SearchFilter struct {
	Source     *string
	DocumentID *string
}
