package provider

import (
	"fmt"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
)

// Registry holds the active providers in the fixed merge order.
type Registry struct {
	providers []Provider
	byID      map[types.ProviderID]Provider
}

// NewRegistry builds every enabled source from configs.
// Sources are kept in types.SourceOrder regardless of the order of configs.
func NewRegistry(factory *Factory, configs []*types.ProviderConfig) (*Registry, error) {
	byConfig := make(map[types.ProviderID]*types.ProviderConfig, len(configs))
	for _, cfg := range configs {
		if _, dup := byConfig[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate museum config: %s", cfg.ID)
		}
		byConfig[cfg.ID] = cfg
	}

	r := &Registry{byID: make(map[types.ProviderID]Provider)}
	for _, id := range types.SourceOrder {
		cfg, ok := byConfig[id]
		if !ok {
			continue
		}
		p, err := factory.Create(cfg)
		if err != nil {
			return nil, fmt.Errorf("create %s provider: %w", id, err)
		}
		r.providers = append(r.providers, p)
		r.byID[id] = p
	}
	return r, nil
}

// NewStaticRegistry wraps already-built providers, keeping their given order.
func NewStaticRegistry(providers ...Provider) *Registry {
	r := &Registry{byID: make(map[types.ProviderID]Provider, len(providers))}
	for _, p := range providers {
		r.providers = append(r.providers, p)
		r.byID[p.GetID()] = p
	}
	return r
}

// All returns the active providers in merge order.
func (r *Registry) All() []Provider {
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Get returns the provider for id.
func (r *Registry) Get(id types.ProviderID) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// IDs returns the active provider IDs in merge order.
func (r *Registry) IDs() []types.ProviderID {
	ids := make([]types.ProviderID, 0, len(r.providers))
	for _, p := range r.providers {
		ids = append(ids, p.GetID())
	}
	return ids
}
