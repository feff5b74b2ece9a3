package research

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoomrx/agastya/internal/vectordb"
)

// maxChunkChars bounds a chunk; paragraphs accumulate until the next one
// would push past it.
const maxChunkChars = 1500

// Reporter receives per-file progress during ingestion.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// IngestStats summarizes an ingestion run.
type IngestStats struct {
	Files  int
	Chunks int
}

// Ingest loads every .txt and .md file in dir into the vector store,
// chunked by paragraphs. Re-ingesting a file replaces its previous chunks.
// reporter may be nil.
func Ingest(ctx context.Context, store vectordb.VectorStore, dir string, reporter Reporter) (IngestStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestStats{}, fmt.Errorf("reading corpus directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".md":
			files = append(files, e.Name())
		}
	}

	if reporter != nil {
		reporter.Start(len(files))
		defer reporter.Finish()
	}

	var stats IngestStats
	for i, name := range files {
		if reporter != nil {
			reporter.Update(i+1, name)
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return stats, fmt.Errorf("reading %s: %w", name, err)
		}

		docID := strings.TrimSuffix(name, filepath.Ext(name))
		meta, body := parseHeader(string(data))
		if meta.Title == "" {
			meta.Title = docID
		}
		meta.DocumentID = docID

		chunks := chunkParagraphs(body, maxChunkChars)
		if len(chunks) == 0 {
			continue
		}

		// Replace any previous version of this document.
		if err := store.DeleteByDocumentID(ctx, docID); err != nil {
			return stats, fmt.Errorf("replacing %s: %w", docID, err)
		}

		docs := make([]vectordb.Document, 0, len(chunks))
		for j, chunk := range chunks {
			m := meta
			m.ChunkIndex = j
			docs = append(docs, vectordb.Document{
				ID:       fmt.Sprintf("%s-%d", docID, j),
				Content:  chunk,
				Metadata: m,
			})
		}
		if err := store.AddDocuments(ctx, docs); err != nil {
			return stats, fmt.Errorf("adding %s: %w", docID, err)
		}

		stats.Files++
		stats.Chunks += len(chunks)
	}

	return stats, nil
}

// parseHeader reads optional "Key: value" metadata lines at the top of a
// document (Title, Source, Date, URL) up to the first blank line. Files
// without such a header keep their whole text as the body.
func parseHeader(text string) (vectordb.DocumentMetadata, string) {
	var meta vectordb.DocumentMetadata
	lines := strings.Split(text, "\n")

	var consumed int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			consumed++
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return vectordb.DocumentMetadata{}, text
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			meta.Title = strings.TrimSpace(value)
		case "source":
			meta.Source = strings.TrimSpace(value)
		case "date":
			meta.PublicationDate = strings.TrimSpace(value)
		case "url":
			meta.URL = strings.TrimSpace(value)
		default:
			return vectordb.DocumentMetadata{}, text
		}
		consumed++
	}

	if meta == (vectordb.DocumentMetadata{}) {
		return vectordb.DocumentMetadata{}, text
	}
	if consumed >= len(lines) {
		return meta, ""
	}
	return meta, strings.Join(lines[consumed:], "\n")
}

// chunkParagraphs splits text on blank lines and packs consecutive
// paragraphs into chunks of at most maxChars. A single oversized paragraph
// becomes its own chunk rather than being split mid-sentence.
func chunkParagraphs(text string, maxChars int) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		if current.Len() > 0 && current.Len()+len(p)+2 > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
