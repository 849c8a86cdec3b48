package types

// PartialPageResult is one adapter's contribution before merging.
type PartialPageResult struct {
	Source       ProviderID `json:"source"`
	Artworks     []*Artwork `json:"artworks"`
	TotalResults int        `json:"totalResults"`
	TotalPages   int        `json:"totalPages"`
	// Err is set when the source failed and was degraded to an empty result.
	Err error `json:"-"`
}

// EmptyPartial is the degraded result of a failed source.
func EmptyPartial(source ProviderID, err error) *PartialPageResult {
	return &PartialPageResult{
		Source:   source,
		Artworks: []*Artwork{},
		Err:      err,
	}
}

// SourceStatus reports how one source contributed to a page.
type SourceStatus struct {
	Source       ProviderID `json:"source"`
	TotalResults int        `json:"totalResults"`
	Returned     int        `json:"returned"`
	Error        string     `json:"error,omitempty"`
}

// PageResult is the Aggregator's unified output for one page.
type PageResult struct {
	Data         []*Artwork      `json:"data"`
	FullData     []*Artwork      `json:"fullData"`
	TotalResults int             `json:"totalResults"`
	TotalPages   int             `json:"totalPages"`
	CurrentPage  int             `json:"currentPage"`
	Sources      []*SourceStatus `json:"sources,omitempty"`
}

// EmptyPage is returned for blank queries.
func EmptyPage(page int) *PageResult {
	return &PageResult{
		Data:        []*Artwork{},
		FullData:    []*Artwork{},
		CurrentPage: page,
	}
}

// Degraded reports whether any source failed while building the page.
func (p *PageResult) Degraded() bool {
	for _, s := range p.Sources {
		if s.Error != "" {
			return true
		}
	}
	return false
}

// CeilDiv returns ceil(total / size), 0 when either is non-positive.
func CeilDiv(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
