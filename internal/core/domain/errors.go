package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format no loader handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBackendUnavailable indicates no memory backend could be selected.
	// The probe chain (native, CLI, JSON fallback) was exhausted.
	ErrBackendUnavailable = errors.New("memory backend unavailable")

	// ErrLLMUnavailable indicates the generation service is not reachable.
	// Retrieval still works; answer generation is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrNoDocuments indicates an ingestion run produced zero documents.
	ErrNoDocuments = errors.New("no documents loaded")
)
