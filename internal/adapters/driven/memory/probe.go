package memory

import (
	"errors"
	"fmt"

	clibackend "github.com/custodia-labs/memrag-cli/internal/adapters/driven/memory/cli"
	"github.com/custodia-labs/memrag-cli/internal/adapters/driven/memory/jsonfile"
	"github.com/custodia-labs/memrag-cli/internal/adapters/driven/memory/sqlite"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// Probe describes one backend variant and how to bring it up. Probes are
// evaluated in order; the first one that opens wins.
type Probe struct {
	// Name identifies the variant for logging.
	Name string

	// Available is a cheap capability check evaluated before Open.
	// Nil means "assume available, let Open decide".
	Available func() bool

	// Open constructs the backend. An error moves the probe chain on.
	Open func() (driven.MemoryBackend, error)
}

// DefaultProbes returns the standard variant chain for a memory file:
// native SQLite store, then the memvid CLI, then the JSON flat file.
func DefaultProbes(memoryFile string) []Probe {
	return []Probe{
		{
			Name: "sqlite",
			Open: func() (driven.MemoryBackend, error) {
				return sqlite.New(memoryFile)
			},
		},
		{
			Name:      "cli",
			Available: clibackend.Available,
			Open: func() (driven.MemoryBackend, error) {
				return clibackend.New(memoryFile), nil
			},
		},
		{
			Name: "jsonfile",
			Open: func() (driven.MemoryBackend, error) {
				return jsonfile.New(memoryFile), nil
			},
		},
	}
}

// open evaluates probes starting at index from and returns the first
// backend that comes up, along with the index it was found at.
func open(probes []Probe, from int) (driven.MemoryBackend, int, error) {
	var errs []error

	for i := from; i < len(probes); i++ {
		p := probes[i]
		if p.Available != nil && !p.Available() {
			logger.Debug("Memory backend %s not available", p.Name)
			continue
		}

		backend, err := p.Open()
		if err != nil {
			logger.Warn("Memory backend %s failed to open: %v", p.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}

		if i > from {
			logger.Info("Falling back to %s memory backend", p.Name)
		}
		return backend, i, nil
	}

	if len(errs) == 0 {
		return nil, -1, domain.ErrBackendUnavailable
	}
	return nil, -1, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, errors.Join(errs...))
}
