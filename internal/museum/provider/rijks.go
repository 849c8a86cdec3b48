package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"go.uber.org/zap"
)

// RijksProvider implements the Rijksmuseum collection API
type RijksProvider struct {
	*BaseProvider
}

// NewRijksProvider creates a new Rijksmuseum provider
func NewRijksProvider(config *types.ProviderConfig, deps Deps) (Provider, error) {
	return &RijksProvider{BaseProvider: NewBaseProvider(config, deps)}, nil
}

// rijksTypes maps abstract types to the Dutch object types the API filters on
var rijksTypes = map[string]string{
	types.TypePainting:   "schilderij",
	types.TypeDrawing:    "tekening",
	types.TypeSculpture:  "beeldhouwwerk",
	types.TypePhotograph: "foto",
	types.TypePrint:      "prent",
}

// rijksSorts maps abstract sort modes to the API's "s" parameter
var rijksSorts = map[types.SortMode]string{
	types.SortRelevance:    "relevance",
	types.SortChronologic:  "chronologic",
	types.SortAchronologic: "achronologic",
	types.SortArtist:       "artist",
}

// rijksResponse represents a Rijksmuseum collection response
type rijksResponse struct {
	Count      int `json:"count"`
	ArtObjects []struct {
		ObjectNumber          string `json:"objectNumber"`
		Title                 string `json:"title"`
		LongTitle             string `json:"longTitle"`
		PrincipalOrFirstMaker string `json:"principalOrFirstMaker"`
		WebImage              *struct {
			URL string `json:"url"`
		} `json:"webImage"`
		Links struct {
			Web string `json:"web"`
		} `json:"links"`
	} `json:"artObjects"`
}

// Fetch executes a collection search on the Rijksmuseum API
func (p *RijksProvider) Fetch(ctx context.Context, req *types.FetchRequest) (*types.PartialPageResult, error) {
	if err := p.RequireAPIKey(); err != nil {
		return nil, err
	}

	size := perPage(req, 10)
	sortBy, ok := rijksSorts[req.SortBy]
	if !ok {
		sortBy = rijksSorts[types.SortRelevance]
	}

	params := url.Values{}
	params.Set("key", p.GetAPIKey())
	params.Set("imgonly", "true")
	params.Set("ps", strconv.Itoa(size))
	params.Set("p", strconv.Itoa(pageOf(req)))
	params.Set("s", sortBy)
	params.Set("culture", "en")
	params.Set("language", "en")
	if req.Query != "" && req.Query != types.WildcardQuery {
		params.Set("q", req.Query)
	}
	typeLabel := ""
	if native, ok := rijksTypes[req.Type]; ok {
		params.Set("type", native)
		typeLabel = req.Type
	}

	body, err := p.GetJSON(ctx, p.Endpoint("/api/en/collection"), params)
	if err != nil {
		return nil, err
	}

	var resp rijksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, invalidResponse(p.GetID(), err)
	}

	artworks := make([]*types.Artwork, 0, len(resp.ArtObjects))
	for _, obj := range resp.ArtObjects {
		if obj.WebImage == nil || obj.WebImage.URL == "" || obj.ObjectNumber == "" {
			continue
		}

		year, dating := rijksDate(obj.LongTitle)
		link := obj.Links.Web
		if link == "" {
			link = "https://www.rijksmuseum.nl/en/collection/" + url.PathEscape(obj.ObjectNumber)
		}

		artwork := &types.Artwork{
			ID:       "rijks-" + obj.ObjectNumber,
			Title:    displayTitle(obj.Title, obj.LongTitle, obj.PrincipalOrFirstMaker),
			Artist:   obj.PrincipalOrFirstMaker,
			Year:     year,
			Dating:   dating,
			Type:     typeLabel,
			Source:   types.ProviderRijksmuseum,
			ImageURL: types.StringPtr(obj.WebImage.URL),
			URL:      link,
		}
		artwork.ApplyDefaults()
		artworks = append(artworks, artwork)
	}

	p.logger.Debug("rijksmuseum results",
		zap.Int("count", resp.Count),
		zap.Int("raw", len(resp.ArtObjects)),
		zap.Int("kept", len(artworks)))

	return &types.PartialPageResult{
		Source:       p.GetID(),
		Artworks:     artworks,
		TotalResults: resp.Count,
		TotalPages:   types.CeilDiv(resp.Count, size),
	}, nil
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// rijksDate extracts the trailing date clause of a long title
// ("De Nachtwacht, Rembrandt van Rijn, 1642") and its first year.
func rijksDate(longTitle string) (string, *int) {
	clauses := strings.Split(longTitle, ",")
	for i := len(clauses) - 1; i >= 1; i-- {
		clause := strings.TrimSpace(clauses[i])
		m := yearPattern.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return clause, nil
		}
		return clause, &year
	}
	return types.DefaultYear, nil
}

// dutchStopWords are frequent Dutch function words that mark an untranslated title
var dutchStopWords = map[string]struct{}{
	"de": {}, "het": {}, "een": {}, "van": {}, "met": {}, "en": {}, "op": {},
	"in": {}, "voor": {}, "bij": {}, "aan": {}, "uit": {}, "naar": {},
}

func hasDutchStopWord(title string) bool {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if _, ok := dutchStopWords[w]; ok {
			return true
		}
	}
	return false
}

// displayTitle swaps a Dutch title for the English restatement that sometimes
// follows it in the long title. This is a heuristic: when no clause qualifies
// the original title is kept.
func displayTitle(title, longTitle, maker string) string {
	title = strings.TrimSpace(title)
	if title == "" || !hasDutchStopWord(title) {
		return title
	}

	rest := strings.TrimPrefix(longTitle, title)
	lowerTitle := strings.ToLower(title)
	for _, clause := range strings.Split(rest, ",") {
		clause = strings.TrimSpace(clause)
		if utf8.RuneCountInString(clause) <= 10 {
			continue
		}
		if clause == maker || yearPattern.MatchString(clause) {
			continue
		}
		if strings.Contains(lowerTitle, strings.ToLower(clause)) {
			continue
		}
		return clause
	}
	return title
}
