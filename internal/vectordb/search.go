package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Result %d (similarity: %.4f) ---\n", i+1, r.Similarity))

		if r.Document.Metadata.Title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", r.Document.Metadata.Title))
		}
		if r.Document.Metadata.Source != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", r.Document.Metadata.Source))
		}
		if r.Document.Metadata.PublicationDate != "" {
			sb.WriteString(fmt.Sprintf("Published: %s\n", r.Document.Metadata.PublicationDate))
		}
		if r.Document.Metadata.URL != "" {
			sb.WriteString(fmt.Sprintf("URL: %s\n", r.Document.Metadata.URL))
		}

		sb.WriteString("\n")
		sb.WriteString(r.Document.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
