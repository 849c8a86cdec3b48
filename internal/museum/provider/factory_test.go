package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory(Deps{})

	assert.Equal(t, []types.ProviderID{
		types.ProviderRijksmuseum,
		types.ProviderHarvard,
		types.ProviderMet,
		types.ProviderArtic,
	}, factory.ListProviders())
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory(Deps{})

	tests := []struct {
		name     string
		config   *types.ProviderConfig
		wantType string
		wantErr  bool
	}{
		{
			name:     "create rijksmuseum provider",
			config:   &types.ProviderConfig{ID: types.ProviderRijksmuseum, Name: "Rijksmuseum", APIHost: "https://www.rijksmuseum.nl"},
			wantType: "*provider.RijksProvider",
		},
		{
			name:     "create harvard provider",
			config:   &types.ProviderConfig{ID: types.ProviderHarvard, Name: "Harvard", APIHost: "https://api.harvardartmuseums.org", APIKey: "k"},
			wantType: "*provider.HarvardProvider",
		},
		{
			name:     "create met provider",
			config:   &types.ProviderConfig{ID: types.ProviderMet, Name: "The Met", APIHost: "https://collectionapi.metmuseum.org"},
			wantType: "*provider.MetProvider",
		},
		{
			name:     "create artic provider",
			config:   &types.ProviderConfig{ID: types.ProviderArtic, Name: "Art Institute of Chicago", APIHost: "https://api.artic.edu"},
			wantType: "*provider.ArticProvider",
		},
		{
			name:    "unknown provider",
			config:  &types.ProviderConfig{ID: "louvre", Name: "Louvre", APIHost: "https://louvre.fr"},
			wantErr: true,
		},
		{
			name:    "missing host",
			config:  &types.ProviderConfig{ID: types.ProviderMet, Name: "The Met"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := factory.Create(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, fmt.Sprintf("%T", p))
			assert.Equal(t, tt.config.ID, p.GetID())
		})
	}
}

type stubProvider struct {
	id types.ProviderID
}

func (s *stubProvider) Fetch(ctx context.Context, req *types.FetchRequest) (*types.PartialPageResult, error) {
	return types.EmptyPartial(s.id, nil), nil
}
func (s *stubProvider) GetID() types.ProviderID              { return s.id }
func (s *stubProvider) GetName() string                      { return string(s.id) }
func (s *stubProvider) Validate() error                      { return nil }
func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func TestFactory_RegisterOverrides(t *testing.T) {
	factory := NewFactory(Deps{})
	factory.Register(types.ProviderMet, func(cfg *types.ProviderConfig, _ Deps) (Provider, error) {
		return &stubProvider{id: cfg.ID}, nil
	})

	p, err := factory.Create(&types.ProviderConfig{ID: types.ProviderMet, Name: "Met", APIHost: "http://met"})
	require.NoError(t, err)
	assert.IsType(t, &stubProvider{}, p)
}

func TestNewRegistry(t *testing.T) {
	factory := NewFactory(Deps{})

	// config order does not matter
	registry, err := NewRegistry(factory, []*types.ProviderConfig{
		{ID: types.ProviderArtic, Name: "AIC", APIHost: "https://api.artic.edu"},
		{ID: types.ProviderRijksmuseum, Name: "Rijks", APIHost: "https://www.rijksmuseum.nl"},
	})
	require.NoError(t, err)
	assert.Equal(t, []types.ProviderID{types.ProviderRijksmuseum, types.ProviderArtic}, registry.IDs())
	assert.Len(t, registry.All(), 2)

	p, ok := registry.Get(types.ProviderArtic)
	assert.True(t, ok)
	assert.Equal(t, types.ProviderArtic, p.GetID())

	_, ok = registry.Get(types.ProviderHarvard)
	assert.False(t, ok)
}

func TestNewRegistryErrors(t *testing.T) {
	factory := NewFactory(Deps{})

	_, err := NewRegistry(factory, []*types.ProviderConfig{
		{ID: types.ProviderMet, Name: "Met", APIHost: "http://a"},
		{ID: types.ProviderMet, Name: "Met", APIHost: "http://b"},
	})
	assert.Error(t, err)

	_, err = NewRegistry(factory, []*types.ProviderConfig{{ID: types.ProviderMet}})
	assert.ErrorIs(t, err, types.ErrInvalidProviderName)
}

func TestStaticRegistryKeepsOrder(t *testing.T) {
	registry := NewStaticRegistry(&stubProvider{id: types.ProviderArtic}, &stubProvider{id: types.ProviderHarvard})
	assert.Equal(t, []types.ProviderID{types.ProviderArtic, types.ProviderHarvard}, registry.IDs())
}
