package service

import "github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"

// SearchQuery 搜索请求参数
type SearchQuery struct {
	Q      string `form:"q"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	SortBy string `form:"sortBy"`
	Type   string `form:"type"`
	Museum string `form:"museum"`
}

func (q *SearchQuery) toRequest() types.SearchRequest {
	return types.SearchRequest{
		Query:  q.Q,
		Page:   q.Page,
		SortBy: types.SortMode(q.SortBy),
		Type:   q.Type,
		Museum: q.Museum,
	}
}

// MuseumInfo 启用的博物馆源
type MuseumInfo struct {
	ID        types.ProviderID `json:"id"`
	Name      string           `json:"name"`
	Available bool             `json:"available"` // 缺少 API key 时为 false，搜索该源会直接失败
}

// MuseumsResponse 博物馆列表响应
type MuseumsResponse struct {
	Museums  []*MuseumInfo `json:"museums"`
	PageSize int           `json:"pageSize"`
}
