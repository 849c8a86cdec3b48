package service

import (
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
)

// CreateCollectionRequest 创建收藏夹请求（可选携带第一件作品）
type CreateCollectionRequest struct {
	Name    string         `json:"name" binding:"max=255"`
	Artwork *types.Artwork `json:"artwork"`
}

// AddArtworkRequest 加入作品请求
type AddArtworkRequest struct {
	Artwork *types.Artwork `json:"artwork" binding:"required"`
}

// CollectionResponse 收藏夹响应
type CollectionResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	Artworks  []*types.Artwork `json:"artworks,omitempty"`
}

// ProfileUser 个人主页用户信息
type ProfileUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfileResponse 个人主页
type ProfileResponse struct {
	User        *ProfileUser          `json:"user"`
	Collections []*CollectionResponse `json:"collections"`
}

// MembershipResponse 加入作品结果
type MembershipResponse struct {
	CollectionID string    `json:"collection_id"`
	ArtworkID    string    `json:"artwork_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func toCollectionResponse(c *biz.Collection) *CollectionResponse {
	return &CollectionResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		Artworks:  c.Artworks,
	}
}

func toCollectionResponses(collections []*biz.Collection) []*CollectionResponse {
	items := make([]*CollectionResponse, len(collections))
	for i, c := range collections {
		items[i] = toCollectionResponse(c)
	}
	return items
}
