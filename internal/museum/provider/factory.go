package provider

import (
	"fmt"
	"sync"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
)

// Constructor builds a provider from its configuration.
type Constructor func(*types.ProviderConfig, Deps) (Provider, error)

// Factory creates provider instances
type Factory struct {
	mu           sync.RWMutex
	deps         Deps
	constructors map[types.ProviderID]Constructor
}

// NewFactory creates a new provider factory with all built-in museums registered
func NewFactory(deps Deps) *Factory {
	f := &Factory{
		deps:         deps,
		constructors: make(map[types.ProviderID]Constructor),
	}

	// Register built-in providers
	f.Register(types.ProviderRijksmuseum, NewRijksProvider)
	f.Register(types.ProviderHarvard, NewHarvardProvider)
	f.Register(types.ProviderMet, NewMetProvider)
	f.Register(types.ProviderArtic, NewArticProvider)

	return f
}

// Register registers a provider constructor
func (f *Factory) Register(id types.ProviderID, constructor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[id] = constructor
}

// Create creates a provider instance from configuration
func (f *Factory) Create(config *types.ProviderConfig) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	f.mu.RLock()
	constructor, exists := f.constructors[config.ID]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", types.ErrProviderNotFound, config.ID)
	}

	return constructor(config, f.deps)
}

// ListProviders returns the registered provider IDs in merge order
func (f *Factory) ListProviders() []types.ProviderID {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]types.ProviderID, 0, len(f.constructors))
	for _, id := range types.SourceOrder {
		if _, ok := f.constructors[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
