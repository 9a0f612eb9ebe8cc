// Package chunker splits text into overlapping segments at semantic boundaries.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 100

// Splitter splits text into overlapping chunks, preferring to cut at
// paragraph breaks, then sentence ends, then line breaks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split divides text into trimmed, non-empty chunks of at most chunkSize
// characters. When a chunk window does not reach the end of the text, the
// cut point moves back to the nearest paragraph break, sentence end or
// newline, provided it falls past the midpoint of the window. The cursor
// always advances, so Split terminates for every input.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	n := len(text)
	var chunks []string

	start := 0
	for start < n {
		end := start + s.chunkSize
		if end > n {
			end = n
		}

		if end < n {
			window := text[start:end]
			end = start + s.breakPoint(window)
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Advance with overlap, guaranteeing forward progress.
		next := end - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint returns the cut offset for a full-size window, preferring a
// paragraph break, then a sentence terminator, then a single newline.
// Candidates before the window midpoint are rejected in favour of a hard cut.
func (s *Splitter) breakPoint(window string) int {
	half := s.chunkSize / 2

	if i := strings.LastIndex(window, "\n\n"); i > half {
		return i + 2
	}
	if i := strings.LastIndex(window, ". "); i > half {
		return i + 2
	}
	if i := strings.LastIndex(window, "\n"); i > half {
		return i + 1
	}
	return s.chunkSize
}
