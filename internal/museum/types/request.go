package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SortMode is the abstract ordering requested by the caller.
type SortMode string

const (
	SortRelevance    SortMode = "relevance"
	SortChronologic  SortMode = "chronologic"  // oldest first
	SortAchronologic SortMode = "achronologic" // newest first
	SortArtist       SortMode = "artist"
)

// IsValid reports whether m is a known sort mode.
func (m SortMode) IsValid() bool {
	switch m {
	case SortRelevance, SortChronologic, SortAchronologic, SortArtist:
		return true
	}
	return false
}

// Abstract type filters understood by every adapter's lookup table.
const (
	TypePainting   = "painting"
	TypeDrawing    = "drawing"
	TypeSculpture  = "sculpture"
	TypePhotograph = "photograph"
	TypePrint      = "print"
)

// MuseumBoth selects every active source.
const MuseumBoth = "both"

// WildcardQuery asks a source for an unfiltered listing.
const WildcardQuery = "*"

// SearchRequest is the Aggregator input.
type SearchRequest struct {
	Query  string   `json:"query" form:"q"`
	Page   int      `json:"page" form:"page"`
	SortBy SortMode `json:"sortBy" form:"sortBy"`
	Type   string   `json:"type,omitempty" form:"type"`
	Museum string   `json:"museum" form:"museum"`
}

// Normalize trims the query and applies defaults in place.
func (r *SearchRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
	if r.Page < 1 {
		r.Page = 1
	}
	r.SortBy = SortMode(strings.ToLower(strings.TrimSpace(string(r.SortBy))))
	if !r.SortBy.IsValid() {
		r.SortBy = SortRelevance
	}
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Museum = strings.ToLower(strings.TrimSpace(r.Museum))
	if r.Museum == "" {
		r.Museum = MuseumBoth
	}
}

// IsEmpty reports whether the query has no searchable text.
func (r *SearchRequest) IsEmpty() bool {
	return strings.TrimSpace(r.Query) == ""
}

var queryFolder = cases.Fold()

// Key returns the canonical identity of the request. Two requests with the same
// key are interchangeable for caching and de-duplication.
func (r SearchRequest) Key() string {
	r.Normalize()
	q := queryFolder.String(norm.NFC.String(r.Query))
	q = strings.Join(strings.Fields(q), " ")
	return fmt.Sprintf("q=%s|p=%d|s=%s|t=%s|m=%s", q, r.Page, r.SortBy, r.Type, r.Museum)
}

// FetchRequest is what a single adapter receives.
type FetchRequest struct {
	Query          string
	Page           int
	SortBy         SortMode
	Type           string
	ResultsPerPage int
}
