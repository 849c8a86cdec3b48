package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HarvardProvider implements the Harvard Art Museums object API
type HarvardProvider struct {
	*BaseProvider
}

// NewHarvardProvider creates a new Harvard provider
func NewHarvardProvider(config *types.ProviderConfig, deps Deps) (Provider, error) {
	return &HarvardProvider{BaseProvider: NewBaseProvider(config, deps)}, nil
}

const (
	harvardFields = "id,title,people,images,primaryimageurl,dated,classification,url,datebegin"
	iiifFullImage = "/full/full/0/default.jpg"
)

// harvardClassifications maps abstract types to Harvard classification names
var harvardClassifications = map[string]string{
	types.TypePainting:   "Paintings",
	types.TypeDrawing:    "Drawings",
	types.TypeSculpture:  "Sculptures",
	types.TypePhotograph: "Photographs",
	types.TypePrint:      "Prints",
}

// Fetch executes an object search on the Harvard API
func (p *HarvardProvider) Fetch(ctx context.Context, req *types.FetchRequest) (*types.PartialPageResult, error) {
	if err := p.RequireAPIKey(); err != nil {
		return nil, err
	}

	size := perPage(req, 10)
	page := pageOf(req)

	params := url.Values{}
	params.Set("apikey", p.GetAPIKey())
	params.Set("size", strconv.Itoa(size))
	params.Set("page", strconv.Itoa(page-1)) // 0-based
	params.Set("fields", harvardFields)
	if req.Query != "" && req.Query != types.WildcardQuery {
		params.Set("q", req.Query)
	}
	switch req.SortBy {
	case types.SortChronologic:
		params.Set("sort", "datebegin")
		params.Set("sortorder", "asc")
	case types.SortAchronologic:
		params.Set("sort", "datebegin")
		params.Set("sortorder", "desc")
	}
	if classification, ok := harvardClassifications[req.Type]; ok {
		params.Set("classification", classification)
	}

	body, err := p.GetJSON(ctx, p.Endpoint("/object"), params)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, invalidResponse(p.GetID(), fmt.Errorf("malformed JSON"))
	}

	doc := gjson.ParseBytes(body)
	total := int(doc.Get("info.totalrecords").Int())
	records := doc.Get("records").Array()

	artworks := make([]*types.Artwork, 0, len(records))
	for _, rec := range records {
		if artwork := harvardArtwork(rec); artwork != nil {
			artworks = append(artworks, artwork)
		}
	}

	p.logger.Debug("harvard results",
		zap.Int("total", total),
		zap.Int("raw", len(records)),
		zap.Int("kept", len(artworks)))

	return &types.PartialPageResult{
		Source:       p.GetID(),
		Artworks:     artworks,
		TotalResults: total,
		TotalPages:   types.CeilDiv(total, size),
	}, nil
}

// harvardArtwork maps one record, returning nil for records without an id or a title.
func harvardArtwork(rec gjson.Result) *types.Artwork {
	id := rec.Get("id").Int()
	if id == 0 {
		return nil
	}
	title := strings.TrimSpace(rec.Get("title").String())
	if title == "" {
		return nil
	}

	artist := types.DefaultArtist
	if name := rec.Get("people.0.name").String(); name != "" {
		artist = name
	}

	year := types.DefaultYear
	dateBegin := rec.Get("datebegin")
	hasDateBegin := dateBegin.Exists() && dateBegin.Type == gjson.Number && dateBegin.Int() != 0
	if dated := rec.Get("dated").String(); dated != "" {
		year = dated
	} else if hasDateBegin {
		year = fmt.Sprintf("c. %d", dateBegin.Int())
	}

	artwork := &types.Artwork{
		ID:       fmt.Sprintf("harvard-%d", id),
		Title:    title,
		Artist:   artist,
		Year:     year,
		Type:     rec.Get("classification").String(),
		Source:   types.ProviderHarvard,
		ImageURL: types.StringPtr(harvardImage(rec)),
		URL:      rec.Get("url").String(),
	}
	if hasDateBegin {
		artwork.Dating = types.IntPtr(int(dateBegin.Int()))
	}
	artwork.ApplyDefaults()
	return artwork
}

// harvardImage picks the display image of a record, "" when it has none.
func harvardImage(rec gjson.Result) string {
	images := rec.Get("images").Array()
	if len(images) == 0 {
		return ""
	}

	imageURL := rec.Get("primaryimageurl").String()
	if imageURL == "" {
		chosen := images[0]
		for _, img := range images {
			if img.Get("primarydisplay").Bool() {
				chosen = img
				break
			}
		}

		if iiif := chosen.Get("iiifbaseuri").String(); iiif != "" {
			imageURL = iiif + iiifFullImage
		} else {
			imageURL = chosen.Get("baseimageurl").String()
		}
	}

	if imageURL != "" && !strings.Contains(imageURL, iiifFullImage) {
		imageURL += "?height=800&width=800"
	}
	return imageURL
}
