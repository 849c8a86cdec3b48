package data

import (
	"context"

	"github.com/google/uuid"
	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/models"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/database"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"gorm.io/gorm"
)

// CollectionRepo 收藏夹仓储实现
type CollectionRepo struct {
	db *database.DB
}

// NewCollectionRepo 创建收藏夹仓储
func NewCollectionRepo(db *database.DB) biz.CollectionRepo {
	return &CollectionRepo{db: db}
}

// ListByUser 列出用户的收藏夹
func (r *CollectionRepo) ListByUser(ctx context.Context, userID string, order biz.ListOrder) ([]*biz.Collection, error) {
	if !isUUID(userID) {
		return []*biz.Collection{}, nil
	}

	query := r.db.WithContext(ctx).GetDB().Where("user_id = ?", userID)
	switch order {
	case biz.OrderByNewest:
		query = query.Scopes(database.OrderBy("created_at", true))
	default:
		query = query.Scopes(database.OrderBy("name", false))
	}

	var pos []*models.CollectionPO
	if err := query.Find(&pos).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err, "list collections")
	}

	collections := make([]*biz.Collection, len(pos))
	for i, po := range pos {
		collections[i] = toCollection(po)
	}
	return collections, nil
}

// GetByID 获取收藏夹（需要验证所有者）
func (r *CollectionRepo) GetByID(ctx context.Context, id, userID string) (*biz.Collection, error) {
	// 非法 uuid 直接视为不存在，避免 postgres 类型错误
	if !isUUID(id) || !isUUID(userID) {
		return nil, biz.ErrCollectionNotFound
	}

	var po models.CollectionPO
	err := r.db.WithContext(ctx).GetDB().
		Where("id = ? AND user_id = ?", id, userID).
		First(&po).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrCollectionNotFound
		}
		return nil, apperrors.NewDatabaseError(err, "get collection")
	}
	return toCollection(&po), nil
}

// Create 创建收藏夹
func (r *CollectionRepo) Create(ctx context.Context, collection *biz.Collection) error {
	if err := r.db.WithContext(ctx).GetDB().Create(toCollectionPO(collection)).Error; err != nil {
		return apperrors.NewDatabaseError(err, "create collection")
	}
	return nil
}

// CreateWithArtwork 在同一事务中创建收藏夹并加入第一件作品
func (r *CollectionRepo) CreateWithArtwork(ctx context.Context, collection *biz.Collection, item *biz.CollectionArtwork) error {
	po := toCollectionPO(collection)
	itemPO := toCollectionArtworkPO(item)

	err := r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Create(po).Error; err != nil {
			return err
		}
		return tx.Create(itemPO).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err, "create collection with artwork")
	}
	return nil
}

// ArtworkExists 检查作品是否已在收藏夹中
func (r *CollectionRepo) ArtworkExists(ctx context.Context, collectionID, artworkID string) (bool, error) {
	if !isUUID(collectionID) {
		return false, biz.ErrCollectionNotFound
	}
	exists, err := database.Exists(ctx, r.db.GetDB(), &models.CollectionArtworkPO{},
		"collection_id = ? AND artwork_id = ?", collectionID, artworkID)
	if err != nil {
		return false, apperrors.NewDatabaseError(err, "check artwork")
	}
	return exists, nil
}

// AddArtwork 加入作品
func (r *CollectionRepo) AddArtwork(ctx context.Context, item *biz.CollectionArtwork) error {
	err := r.db.WithContext(ctx).GetDB().Create(toCollectionArtworkPO(item)).Error
	if database.IsDuplicateKeyError(err) {
		// 并发插入时由唯一索引兜底
		return biz.ErrArtworkAlreadyInCollection
	}
	if err != nil {
		return apperrors.NewDatabaseError(err, "add artwork")
	}
	return nil
}

// ListArtworks 批量获取多个收藏夹的作品快照（按加入时间倒序）
func (r *CollectionRepo) ListArtworks(ctx context.Context, collectionIDs []string) (map[string][]*types.Artwork, error) {
	result := make(map[string][]*types.Artwork, len(collectionIDs))
	if len(collectionIDs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(collectionIDs))
	for _, id := range collectionIDs {
		if isUUID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return result, nil
	}

	var pos []*models.CollectionArtworkPO
	err := r.db.WithContext(ctx).GetDB().
		Where("collection_id IN ?", ids).
		Scopes(database.OrderBy("created_at", true)).
		Find(&pos).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err, "list artworks")
	}

	for _, po := range pos {
		key := po.CollectionID
		result[key] = append(result[key], po.ArtworkData.Artwork())
	}
	return result, nil
}

func toCollection(po *models.CollectionPO) *biz.Collection {
	return &biz.Collection{
		ID:        po.ID,
		UserID:    po.UserID,
		Name:      po.Name,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}

func toCollectionPO(c *biz.Collection) *models.CollectionPO {
	return &models.CollectionPO{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCollectionArtworkPO(item *biz.CollectionArtwork) *models.CollectionArtworkPO {
	return &models.CollectionArtworkPO{
		ID:           item.ID,
		CollectionID: item.CollectionID,
		ArtworkID:    item.ArtworkID,
		ArtworkData:  models.ArtworkSnapshot(*item.Artwork),
		CreatedAt:    item.CreatedAt,
	}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
