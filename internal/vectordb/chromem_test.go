package vectordb

import (
	"context"
	"math"
	"os"
	"strings"
	"testing"
)

// mockEmbedder returns deterministic embeddings based on text content.
// It produces a simple hash-based vector for reproducible tests.
type mockEmbedder struct {
	dims int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

// deterministicVector produces a normalized vector from text.
// Similar texts will produce similar vectors because shared characters contribute
// to the same positions in the vector.
func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	// Normalize
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func TestChromemStore_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:      "art1-0",
			Content: "A phase 3 trial of pembrolizumab in advanced melanoma showed improved survival",
			Metadata: DocumentMetadata{
				Title:           "Pembrolizumab in Advanced Melanoma",
				Source:          "NEJM",
				PublicationDate: "2024-03-12",
				URL:             "https://example.org/nejm/pembro",
				DocumentID:      "art1",
				ChunkIndex:      0,
			},
		},
		{
			ID:      "art2-0",
			Content: "SGLT2 inhibitors reduce hospitalization in heart failure with preserved ejection fraction",
			Metadata: DocumentMetadata{
				Title:           "SGLT2 Inhibitors in HFpEF",
				Source:          "JAMA",
				PublicationDate: "2024-06-01",
				URL:             "https://example.org/jama/sglt2",
				DocumentID:      "art2",
				ChunkIndex:      0,
			},
		},
		{
			ID:      "art3-0",
			Content: "Updated guidelines for statin therapy in primary prevention of cardiovascular disease",
			Metadata: DocumentMetadata{
				Title:           "Statin Therapy Guidelines",
				Source:          "AHA",
				PublicationDate: "2023-11-20",
				URL:             "https://example.org/aha/statins",
				DocumentID:      "art3",
				ChunkIndex:      0,
			},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	if count := store.Count(); count != 3 {
		t.Errorf("Count: got %d, want 3", count)
	}

	results, err := store.Search(ctx, "melanoma immunotherapy survival", 2, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search returned no results")
	}
	if len(results) > 2 {
		t.Errorf("Search returned %d results, expected at most 2", len(results))
	}

	// Verify results have similarity scores
	for _, r := range results {
		if r.Similarity == 0 {
			t.Error("result has zero similarity")
		}
	}
}

func TestChromemStore_SearchWithFilter(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:      "a-0",
			Content: "Trial results for a new anticoagulant",
			Metadata: DocumentMetadata{
				Title:      "Anticoagulant Trial",
				Source:     "NEJM",
				DocumentID: "a",
			},
		},
		{
			ID:      "b-0",
			Content: "Observational study of a new anticoagulant",
			Metadata: DocumentMetadata{
				Title:      "Anticoagulant Study",
				Source:     "Lancet",
				DocumentID: "b",
			},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	source := "Lancet"
	results, err := store.Search(ctx, "anticoagulant", 10, &SearchFilter{Source: &source})
	if err != nil {
		t.Fatalf("Search with filter: %v", err)
	}

	for _, r := range results {
		if r.Document.Metadata.Source != "Lancet" {
			t.Errorf("expected source Lancet, got %s", r.Document.Metadata.Source)
		}
	}
}

func TestChromemStore_DeleteByDocumentID(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:       "x-0",
			Content:  "first chunk of article x",
			Metadata: DocumentMetadata{DocumentID: "x", ChunkIndex: 0},
		},
		{
			ID:       "x-1",
			Content:  "second chunk of article x",
			Metadata: DocumentMetadata{DocumentID: "x", ChunkIndex: 1},
		},
		{
			ID:       "y-0",
			Content:  "only chunk of article y",
			Metadata: DocumentMetadata{DocumentID: "y", ChunkIndex: 0},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	if count := store.Count(); count != 3 {
		t.Fatalf("Count before delete: got %d, want 3", count)
	}

	if err := store.DeleteByDocumentID(ctx, "x"); err != nil {
		t.Fatalf("DeleteByDocumentID: %v", err)
	}

	if count := store.Count(); count != 1 {
		t.Errorf("Count after delete: got %d, want 1", count)
	}
}

func TestChromemStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:      "p1-0",
			Content: "persistent chunk about immunotherapy response rates",
			Metadata: DocumentMetadata{
				Title:           "Immunotherapy Response",
				Source:          "NEJM",
				PublicationDate: "2024-01-15",
				URL:             "https://example.org/nejm/immuno",
				DocumentID:      "p1",
				ChunkIndex:      0,
			},
		},
		{
			ID:      "p2-0",
			Content: "persistent chunk about biomarker-driven trial design",
			Metadata: DocumentMetadata{
				Title:           "Biomarker Trial Design",
				Source:          "Lancet",
				PublicationDate: "2024-02-20",
				URL:             "https://example.org/lancet/biomarker",
				DocumentID:      "p2",
				ChunkIndex:      0,
			},
		},
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "chromem-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := store.Persist(ctx, tmpDir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	store2, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore for load: %v", err)
	}

	if err := store2.Load(ctx, tmpDir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if count := store2.Count(); count != 2 {
		t.Errorf("Count after load: got %d, want 2", count)
	}

	results, err := store2.Search(ctx, "immunotherapy biomarker", 2, nil)
	if err != nil {
		t.Fatalf("Search after load: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search after load returned %d results, want 2", len(results))
	}

	foundImmuno, foundBiomarker := false, false
	for _, r := range results {
		switch r.Document.Metadata.DocumentID {
		case "p1":
			foundImmuno = true
			if r.Document.Metadata.Source != "NEJM" {
				t.Errorf("p1: expected source NEJM, got %s", r.Document.Metadata.Source)
			}
			if r.Document.Metadata.PublicationDate != "2024-01-15" {
				t.Errorf("p1: expected publication date 2024-01-15, got %s", r.Document.Metadata.PublicationDate)
			}
		case "p2":
			foundBiomarker = true
			if r.Document.Metadata.Title != "Biomarker Trial Design" {
				t.Errorf("p2: expected biomarker title, got %s", r.Document.Metadata.Title)
			}
		}
	}
	if !foundImmuno {
		t.Error("p1 document not found after load")
	}
	if !foundBiomarker {
		t.Error("p2 document not found after load")
	}
}

func TestFormatResults(t *testing.T) {
	results := []SearchResult{
		{
			Document: Document{
				ID:      "r1",
				Content: "Checkpoint inhibitors in NSCLC first-line therapy",
				Metadata: DocumentMetadata{
					Title:           "Checkpoint Inhibitors in NSCLC",
					Source:          "JCO",
					PublicationDate: "2024-04-02",
					URL:             "https://example.org/jco/nsclc",
				},
			},
			Similarity: 0.9512,
		},
	}

	output := FormatResults(results)
	if output == "" {
		t.Error("FormatResults returned empty string")
	}
	if !strings.Contains(output, "Checkpoint Inhibitors in NSCLC") {
		t.Errorf("expected title in output, got: %s", output)
	}
	if !strings.Contains(output, "0.9512") {
		t.Errorf("expected similarity score in output, got: %s", output)
	}
}

func TestFormatResults_Empty(t *testing.T) {
	output := FormatResults(nil)
	if output != "No results found." {
		t.Errorf("expected 'No results found.', got: %s", output)
	}
}
