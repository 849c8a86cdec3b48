package types

const (
	DefaultTitle  = "Untitled"
	DefaultArtist = "Unknown Artist"
	DefaultType   = "Unknown Type"
	DefaultYear   = "Date unknown"
)

// Artwork is the normalized record every adapter returns.
type Artwork struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Artist   string     `json:"artist"`
	Year     string     `json:"year"`
	Dating   *int       `json:"dating,omitempty"`
	Type     string     `json:"type"`
	Source   ProviderID `json:"source"`
	ImageURL *string    `json:"image_url"`
	URL      string     `json:"url,omitempty"`
}

// DatingOrZero returns the sort key, treating undated works as year 0.
func (a *Artwork) DatingOrZero() int {
	if a.Dating == nil {
		return 0
	}
	return *a.Dating
}

// HasImage reports whether the artwork can be rendered inline.
func (a *Artwork) HasImage() bool {
	return a.ImageURL != nil && *a.ImageURL != ""
}

// ApplyDefaults fills display fields left empty by a source.
func (a *Artwork) ApplyDefaults() {
	if a.Title == "" {
		a.Title = DefaultTitle
	}
	if a.Artist == "" {
		a.Artist = DefaultArtist
	}
	if a.Type == "" {
		a.Type = DefaultType
	}
	if a.Year == "" {
		a.Year = DefaultYear
	}
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
