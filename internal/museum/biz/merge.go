package biz

import (
	"sort"
	"strings"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
)

// MergePages 合并各源结果为一页
// partials 必须已按固定源顺序排列；合并为拼接而非交错，只有非 relevance 排序才会打乱源顺序
func MergePages(partials []*types.PartialPageResult, sortBy types.SortMode, pageSize, currentPage int) *types.PageResult {
	merged := make([]*types.Artwork, 0, pageSize)
	seen := make(map[string]struct{})
	statuses := make([]*types.SourceStatus, 0, len(partials))
	total := 0

	for _, partial := range partials {
		if partial == nil {
			continue
		}

		status := &types.SourceStatus{
			Source:       partial.Source,
			TotalResults: partial.TotalResults,
			Returned:     len(partial.Artworks),
		}
		if partial.Err != nil {
			status.Error = partial.Err.Error()
		}
		statuses = append(statuses, status)
		total += partial.TotalResults

		for _, artwork := range partial.Artworks {
			if artwork == nil || artwork.ID == "" {
				continue
			}
			if _, dup := seen[artwork.ID]; dup {
				continue
			}
			seen[artwork.ID] = struct{}{}
			merged = append(merged, artwork)
		}
	}

	SortArtworks(merged, sortBy)

	data := merged
	if pageSize > 0 && len(data) > pageSize {
		data = data[:pageSize]
	}

	return &types.PageResult{
		Data:         data,
		FullData:     merged,
		TotalResults: total,
		TotalPages:   types.CeilDiv(total, pageSize),
		CurrentPage:  currentPage,
		Sources:      statuses,
	}
}

// SortArtworks 稳定排序；未标注年代的作品按 0 处理
func SortArtworks(artworks []*types.Artwork, sortBy types.SortMode) {
	switch sortBy {
	case types.SortChronologic:
		sort.SliceStable(artworks, func(i, j int) bool {
			return artworks[i].DatingOrZero() < artworks[j].DatingOrZero()
		})
	case types.SortAchronologic:
		sort.SliceStable(artworks, func(i, j int) bool {
			return artworks[i].DatingOrZero() > artworks[j].DatingOrZero()
		})
	case types.SortArtist:
		sort.SliceStable(artworks, func(i, j int) bool {
			return strings.ToLower(artworks[i].Artist) < strings.ToLower(artworks[j].Artist)
		})
	}
}

// SourceCap 每个源可贡献的作品数上限
func SourceCap(pageSize, sources int) int {
	if sources <= 0 {
		return pageSize
	}
	n := pageSize / sources
	if n < 1 {
		n = 1
	}
	return n
}
