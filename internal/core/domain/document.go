package domain

// Document represents one ingested chunk of source content.
// It is the canonical record handed to the memory store.
type Document struct {
	// ID is the unique identifier for the record.
	ID string

	// Content is the text payload of the chunk.
	Content string

	// Title is the human-readable label. When a source file produces
	// multiple chunks the title carries a part index, e.g. "guide (Part 2/5)".
	Title string

	// URI is the stable locator of the form mv2://docs/<filename>#chunk-<n>.
	// URIs are unique across all documents produced in a single ingestion run.
	URI string

	// SourceFile is the originating file path, retained for provenance.
	SourceFile string

	// Tags contains free-form string metadata such as "type", "chunk",
	// "total_chunks" and "pages".
	Tags map[string]string
}

// SearchHit represents a single retrieval result.
// Ordering (descending by score) is the memory store's responsibility.
type SearchHit struct {
	// Text is the matched snippet.
	Text string

	// Title is the title of the matched document.
	Title string

	// Score is the relevance score, higher is more relevant.
	Score float64

	// URI locates the matched document.
	URI string
}

// StoreStats describes a memory store's contents and capabilities.
type StoreStats struct {
	// FrameCount is the number of stored records.
	FrameCount int

	// HasLexIndex reports whether the backend maintains a lexical index.
	HasLexIndex bool

	// HasVecIndex reports whether the backend maintains a vector index.
	HasVecIndex bool

	// Backend is the name of the backend variant that produced the stats.
	Backend string
}

// Map renders the stats as a generic mapping for display and JSON output.
func (s StoreStats) Map() map[string]any {
	return map[string]any{
		"frame_count":   s.FrameCount,
		"has_lex_index": s.HasLexIndex,
		"has_vec_index": s.HasVecIndex,
		"backend":       s.Backend,
	}
}
