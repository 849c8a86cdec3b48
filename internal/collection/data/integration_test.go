//go:build integration

package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/models"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/database"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (biz.CollectionRepo, *database.DB) {
	cfg := database.DefaultConfig()
	cfg.Host = getEnv("TEST_DB_HOST", "localhost")
	cfg.User = getEnv("TEST_DB_USER", "postgres")
	cfg.Password = getEnv("TEST_DB_PASSWORD", "postgres")
	cfg.DBName = getEnv("TEST_DB_NAME", "exhibition_curator")
	cfg.AutoMigrate = true

	log, err := logger.Development()
	require.NoError(t, err)

	db, err := database.New(cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.Models()...))

	t.Cleanup(func() { _ = db.Close() })
	return NewCollectionRepo(db), db
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newTestCollection(t *testing.T, repo biz.CollectionRepo, db *database.DB) *biz.Collection {
	now := time.Now()
	collection := &biz.Collection{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Name:      "Dutch Golden Age",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), collection))

	t.Cleanup(func() {
		db.GetDB().Where("collection_id = ?", collection.ID).Delete(&models.CollectionArtworkPO{})
		db.GetDB().Where("id = ?", collection.ID).Delete(&models.CollectionPO{})
	})
	return collection
}

func newTestItem(collectionID, artworkID string) *biz.CollectionArtwork {
	return &biz.CollectionArtwork{
		ID:           uuid.NewString(),
		CollectionID: collectionID,
		ArtworkID:    artworkID,
		Artwork: &types.Artwork{
			ID:     artworkID,
			Title:  "The Milkmaid",
			Artist: "Johannes Vermeer",
			Source: types.ProviderRijksmuseum,
		},
		CreatedAt: time.Now(),
	}
}

func TestAddArtworkDuplicateIsAlreadyInCollection(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	collection := newTestCollection(t, repo, db)

	require.NoError(t, repo.AddArtwork(ctx, newTestItem(collection.ID, "rijks-SK-A-2344")))

	// 第二次插入由唯一索引拒绝
	err := repo.AddArtwork(ctx, newTestItem(collection.ID, "rijks-SK-A-2344"))
	assert.ErrorIs(t, err, biz.ErrArtworkAlreadyInCollection)

	exists, err := repo.ArtworkExists(ctx, collection.ID, "rijks-SK-A-2344")
	require.NoError(t, err)
	assert.True(t, exists)

	artworks, err := repo.ListArtworks(ctx, []string{collection.ID})
	require.NoError(t, err)
	require.Len(t, artworks[collection.ID], 1)
	assert.Equal(t, "The Milkmaid", artworks[collection.ID][0].Title)
}

func TestSameArtworkInDifferentCollections(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	first := newTestCollection(t, repo, db)
	second := newTestCollection(t, repo, db)

	require.NoError(t, repo.AddArtwork(ctx, newTestItem(first.ID, "met-436535")))
	assert.NoError(t, repo.AddArtwork(ctx, newTestItem(second.ID, "met-436535")))
}
