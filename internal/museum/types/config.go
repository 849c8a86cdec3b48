package types

// ProviderID identifies a museum source. It doubles as the Artwork.Source value.
type ProviderID string

const (
	ProviderRijksmuseum ProviderID = "rijksmuseum"
	ProviderHarvard     ProviderID = "harvard"
	ProviderMet         ProviderID = "met"
	ProviderArtic       ProviderID = "artic"
)

// SourceOrder is the fixed order in which per-source results are merged.
var SourceOrder = []ProviderID{
	ProviderRijksmuseum,
	ProviderHarvard,
	ProviderMet,
	ProviderArtic,
}

// IsValid reports whether id is a known source.
func (id ProviderID) IsValid() bool {
	for _, known := range SourceOrder {
		if id == known {
			return true
		}
	}
	return false
}

// ProviderConfig represents museum source configuration
type ProviderConfig struct {
	ID      ProviderID `json:"id" mapstructure:"id"`
	Name    string     `json:"name" mapstructure:"name"`
	Enabled bool       `json:"enabled" mapstructure:"enabled"`

	// API settings
	APIHost string `json:"api_host" mapstructure:"api_host"`
	APIKey  string `json:"-" mapstructure:"api_key"`

	// Artic only: IIIF image server base
	ImageHost string `json:"image_host,omitempty" mapstructure:"image_host"`

	// Optional settings
	Timeout   int     `json:"timeout,omitempty" mapstructure:"timeout"`       // seconds
	RateLimit float64 `json:"rate_limit,omitempty" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
}

// RequiresAPIKey reports whether the source refuses anonymous calls.
func (id ProviderID) RequiresAPIKey() bool {
	switch id {
	case ProviderRijksmuseum, ProviderHarvard:
		return true
	default:
		return false
	}
}

// Validate validates the provider configuration.
// A missing API key is not reported here: it is fatal per call, not at startup.
func (c *ProviderConfig) Validate() error {
	if !c.ID.IsValid() {
		return ErrInvalidProviderID
	}
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	return nil
}
