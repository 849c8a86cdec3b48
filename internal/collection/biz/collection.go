package biz

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"go.uber.org/zap"
)

// MaxCollectionNameLength 收藏夹名称最大长度（字符）
const MaxCollectionNameLength = 255

// Collection 收藏夹领域模型
type Collection struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Artworks 仅在 profile 视图中填充
	Artworks []*types.Artwork
}

// CollectionArtwork 收藏夹中的作品快照
type CollectionArtwork struct {
	ID           string
	CollectionID string
	ArtworkID    string
	Artwork      *types.Artwork
	CreatedAt    time.Time
}

// ListOrder 收藏夹列表排序方式
type ListOrder int

const (
	// OrderByName 按名称升序（添加作品时的选择列表）
	OrderByName ListOrder = iota
	// OrderByNewest 按创建时间倒序（个人主页）
	OrderByNewest
)

// CollectionRepo 收藏夹仓储接口
type CollectionRepo interface {
	// ListByUser 列出用户的收藏夹
	ListByUser(ctx context.Context, userID string, order ListOrder) ([]*Collection, error)

	// GetByID 获取收藏夹（需要验证所有者）
	GetByID(ctx context.Context, id, userID string) (*Collection, error)

	// Create 创建收藏夹
	Create(ctx context.Context, collection *Collection) error

	// CreateWithArtwork 在同一事务中创建收藏夹并加入第一件作品
	CreateWithArtwork(ctx context.Context, collection *Collection, item *CollectionArtwork) error

	// ArtworkExists 检查作品是否已在收藏夹中
	ArtworkExists(ctx context.Context, collectionID, artworkID string) (bool, error)

	// AddArtwork 加入作品；唯一约束冲突时返回 ErrArtworkAlreadyInCollection
	AddArtwork(ctx context.Context, item *CollectionArtwork) error

	// ListArtworks 批量获取多个收藏夹的作品快照
	ListArtworks(ctx context.Context, collectionIDs []string) (map[string][]*types.Artwork, error)
}

// CollectionUseCase 收藏夹业务逻辑
type CollectionUseCase struct {
	repo   CollectionRepo
	logger *zap.Logger
}

// NewCollectionUseCase 创建收藏夹用例
func NewCollectionUseCase(repo CollectionRepo, logger *zap.Logger) *CollectionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionUseCase{
		repo:   repo,
		logger: logger,
	}
}

// ListCollections 列出用户的收藏夹（按名称排序）
func (uc *CollectionUseCase) ListCollections(ctx context.Context, userID string) ([]*Collection, error) {
	return uc.repo.ListByUser(ctx, userID, OrderByName)
}

// CreateCollection 创建收藏夹
func (uc *CollectionUseCase) CreateCollection(ctx context.Context, userID, name string) (*Collection, error) {
	collection, err := newCollection(userID, name)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	uc.logger.Info("collection created",
		zap.String("collection_id", collection.ID),
		zap.String("user_id", userID))

	return collection, nil
}

// CreateCollectionWithArtwork 创建收藏夹并加入作品
func (uc *CollectionUseCase) CreateCollectionWithArtwork(ctx context.Context, userID, name string, artwork *types.Artwork) (*Collection, error) {
	if err := validateArtwork(artwork); err != nil {
		return nil, err
	}

	collection, err := newCollection(userID, name)
	if err != nil {
		return nil, err
	}

	item := newCollectionArtwork(collection.ID, artwork)
	if err := uc.repo.CreateWithArtwork(ctx, collection, item); err != nil {
		return nil, fmt.Errorf("create collection with artwork: %w", err)
	}

	uc.logger.Info("collection created with artwork",
		zap.String("collection_id", collection.ID),
		zap.String("artwork_id", artwork.ID),
		zap.String("user_id", userID))

	collection.Artworks = []*types.Artwork{artwork}
	return collection, nil
}

// AddArtwork 将作品快照加入收藏夹；重复加入返回 ErrArtworkAlreadyInCollection
func (uc *CollectionUseCase) AddArtwork(ctx context.Context, userID, collectionID string, artwork *types.Artwork) (*CollectionArtwork, error) {
	if err := validateArtwork(artwork); err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetByID(ctx, collectionID, userID); err != nil {
		return nil, err
	}

	exists, err := uc.repo.ArtworkExists(ctx, collectionID, artwork.ID)
	if err != nil {
		return nil, fmt.Errorf("check artwork membership: %w", err)
	}
	if exists {
		return nil, ErrArtworkAlreadyInCollection
	}

	item := newCollectionArtwork(collectionID, artwork)
	if err := uc.repo.AddArtwork(ctx, item); err != nil {
		return nil, err
	}

	uc.logger.Info("artwork added to collection",
		zap.String("collection_id", collectionID),
		zap.String("artwork_id", artwork.ID))

	return item, nil
}

// GetProfileCollections 个人主页：按创建时间倒序列出收藏夹及其作品
func (uc *CollectionUseCase) GetProfileCollections(ctx context.Context, userID string) ([]*Collection, error) {
	collections, err := uc.repo.ListByUser(ctx, userID, OrderByNewest)
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return collections, nil
	}

	ids := make([]string, len(collections))
	for i, c := range collections {
		ids[i] = c.ID
	}

	artworks, err := uc.repo.ListArtworks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list collection artworks: %w", err)
	}

	for _, c := range collections {
		c.Artworks = artworks[c.ID]
		if c.Artworks == nil {
			c.Artworks = []*types.Artwork{}
		}
	}
	return collections, nil
}

func newCollection(userID, name string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCollectionNameRequired
	}
	if utf8.RuneCountInString(name) > MaxCollectionNameLength {
		return nil, ErrCollectionNameTooLong
	}

	now := time.Now()
	return &Collection{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func newCollectionArtwork(collectionID string, artwork *types.Artwork) *CollectionArtwork {
	return &CollectionArtwork{
		ID:           uuid.New().String(),
		CollectionID: collectionID,
		ArtworkID:    artwork.ID,
		Artwork:      artwork,
		CreatedAt:    time.Now(),
	}
}

func validateArtwork(artwork *types.Artwork) error {
	if artwork == nil || strings.TrimSpace(artwork.ID) == "" || artwork.Source == "" {
		return ErrInvalidArtwork
	}
	return nil
}
