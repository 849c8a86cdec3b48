package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
)

// CollectionPO 收藏夹数据库模型
type CollectionPO struct {
	ID        string    `gorm:"type:uuid;primarykey"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_collections_user_id"`
	Name      string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CollectionPO) TableName() string {
	return "collections"
}

// CollectionArtworkPO 收藏夹与作品快照的关联
// (collection_id, artwork_id) 唯一，防止同一作品重复收藏
type CollectionArtworkPO struct {
	ID           string          `gorm:"type:uuid;primarykey"`
	CollectionID string          `gorm:"type:uuid;not null;uniqueIndex:idx_collection_artworks_unique"`
	ArtworkID    string          `gorm:"size:128;not null;uniqueIndex:idx_collection_artworks_unique"`
	ArtworkData  ArtworkSnapshot `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`

	Collection *CollectionPO `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

func (CollectionArtworkPO) TableName() string {
	return "collection_artworks"
}

// ArtworkSnapshot 作品快照（JSONB），与博物馆 API 后续变化解耦
type ArtworkSnapshot types.Artwork

// Scan implements sql.Scanner interface
func (a *ArtworkSnapshot) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = ArtworkSnapshot{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported artwork_data type %T", value)
	}
	return json.Unmarshal(raw, (*types.Artwork)(a))
}

// Value implements driver.Valuer interface
func (a ArtworkSnapshot) Value() (driver.Value, error) {
	data, err := json.Marshal(types.Artwork(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Artwork returns the snapshot as a domain artwork.
func (a ArtworkSnapshot) Artwork() *types.Artwork {
	artwork := types.Artwork(a)
	return &artwork
}
