package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/workerpool"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// MetProvider implements the Metropolitan Museum collection API.
// Search only returns object IDs, so each page costs one detail call per object.
type MetProvider struct {
	*BaseProvider
	pool *workerpool.Pool
}

// NewMetProvider creates a new Met provider
func NewMetProvider(config *types.ProviderConfig, deps Deps) (Provider, error) {
	return &MetProvider{
		BaseProvider: NewBaseProvider(config, deps),
		pool:         deps.Pool,
	}, nil
}

// metMediums maps abstract types to the search endpoint's medium filter
var metMediums = map[string]string{
	types.TypePainting:   "Paintings",
	types.TypeDrawing:    "Drawings",
	types.TypeSculpture:  "Sculpture",
	types.TypePhotograph: "Photographs",
	types.TypePrint:      "Prints",
}

// Fetch executes a search on the Met API and resolves the page's objects
func (p *MetProvider) Fetch(ctx context.Context, req *types.FetchRequest) (*types.PartialPageResult, error) {
	size := perPage(req, 10)
	page := pageOf(req)

	params := url.Values{}
	params.Set("hasImages", "true")
	query := req.Query
	if query == "" {
		query = types.WildcardQuery
	}
	params.Set("q", query)
	if medium, ok := metMediums[req.Type]; ok {
		params.Set("medium", medium)
	}

	body, err := p.GetJSON(ctx, p.Endpoint("/public/collection/v1/search"), params)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, invalidResponse(p.GetID(), fmt.Errorf("malformed JSON"))
	}

	doc := gjson.ParseBytes(body)
	total := int(doc.Get("total").Int())
	ids := doc.Get("objectIDs").Array()

	start := (page - 1) * size
	if start >= len(ids) {
		return &types.PartialPageResult{
			Source:       p.GetID(),
			Artworks:     []*types.Artwork{},
			TotalResults: total,
			TotalPages:   types.CeilDiv(total, size),
		}, nil
	}
	end := start + size
	if end > len(ids) {
		end = len(ids)
	}
	window := ids[start:end]

	resolved := make([]*types.Artwork, len(window))
	fetchOne := func(ctx context.Context, i int) {
		artwork, err := p.fetchObject(ctx, window[i].Int())
		if err != nil {
			p.logger.Debug("met object skipped", zap.Int64("object_id", window[i].Int()), zap.Error(err))
			return
		}
		resolved[i] = artwork
	}

	if p.pool != nil {
		if err := p.pool.RunAll(ctx, len(window), fetchOne); err != nil {
			p.logger.Warn("met detail fan-out degraded", zap.Error(err))
		}
	} else {
		var wg sync.WaitGroup
		for i := range window {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fetchOne(ctx, i)
			}(i)
		}
		wg.Wait()
	}

	artworks := make([]*types.Artwork, 0, len(resolved))
	for _, artwork := range resolved {
		if artwork != nil {
			artworks = append(artworks, artwork)
		}
	}

	return &types.PartialPageResult{
		Source:       p.GetID(),
		Artworks:     artworks,
		TotalResults: total,
		TotalPages:   types.CeilDiv(total, size),
	}, nil
}

var (
	// errNoImage marks objects dropped for lacking a primary image
	errNoImage = errors.New("object has no primary image")
	// errNoObjectID marks objects whose payload carries no objectID
	errNoObjectID = errors.New("object has no objectID")
)

func (p *MetProvider) fetchObject(ctx context.Context, id int64) (*types.Artwork, error) {
	body, err := p.GetJSON(ctx, p.Endpoint("/public/collection/v1/objects/"+strconv.FormatInt(id, 10)), nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, invalidResponse(p.GetID(), fmt.Errorf("malformed JSON"))
	}

	obj := gjson.ParseBytes(body)
	objectID := obj.Get("objectID").Int()
	if objectID == 0 {
		return nil, errNoObjectID
	}

	year := obj.Get("objectDate").String()
	if year == "" {
		year = obj.Get("period").String()
	}

	artwork := &types.Artwork{
		ID:       fmt.Sprintf("met-%d", objectID),
		Title:    obj.Get("title").String(),
		Artist:   obj.Get("artistDisplayName").String(),
		Year:     year,
		Type:     obj.Get("classification").String(),
		Source:   types.ProviderMet,
		ImageURL: types.StringPtr(obj.Get("primaryImage").String()),
		URL:      obj.Get("objectURL").String(),
	}
	if begin := obj.Get("objectBeginDate"); begin.Exists() && begin.Int() != 0 {
		artwork.Dating = types.IntPtr(int(begin.Int()))
	}
	if !artwork.HasImage() {
		return nil, errNoImage
	}
	artwork.ApplyDefaults()
	return artwork, nil
}
