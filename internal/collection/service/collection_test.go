package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	userbiz "github.com/lk2023060901/exhibition-curator-backend/internal/user/biz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "0b8a3c1e-5f0e-4c1a-9a53-0d8f6a4c2b11"

// stubRepo 内存仓储；insertConflict 模拟并发写入时唯一索引冲突
type stubRepo struct {
	mu             sync.Mutex
	collections    map[string]*biz.Collection
	items          map[string]map[string]*types.Artwork
	insertConflict bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		collections: make(map[string]*biz.Collection),
		items:       make(map[string]map[string]*types.Artwork),
	}
}

func (r *stubRepo) ListByUser(ctx context.Context, userID string, order biz.ListOrder) ([]*biz.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*biz.Collection{}
	for _, c := range r.collections {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubRepo) GetByID(ctx context.Context, id, userID string) (*biz.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.collections[id]
	if !ok || c.UserID != userID {
		return nil, biz.ErrCollectionNotFound
	}
	return c, nil
}

func (r *stubRepo) Create(ctx context.Context, collection *biz.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[collection.ID] = collection
	return nil
}

func (r *stubRepo) CreateWithArtwork(ctx context.Context, collection *biz.Collection, item *biz.CollectionArtwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[collection.ID] = collection
	r.items[collection.ID] = map[string]*types.Artwork{item.ArtworkID: item.Artwork}
	return nil
}

func (r *stubRepo) ArtworkExists(ctx context.Context, collectionID, artworkID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[collectionID][artworkID]
	return ok, nil
}

func (r *stubRepo) AddArtwork(ctx context.Context, item *biz.CollectionArtwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertConflict {
		return biz.ErrArtworkAlreadyInCollection
	}
	if r.items[item.CollectionID] == nil {
		r.items[item.CollectionID] = make(map[string]*types.Artwork)
	}
	r.items[item.CollectionID][item.ArtworkID] = item.Artwork
	return nil
}

func (r *stubRepo) ListArtworks(ctx context.Context, collectionIDs []string) (map[string][]*types.Artwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]*types.Artwork, len(collectionIDs))
	for _, id := range collectionIDs {
		for _, a := range r.items[id] {
			out[id] = append(out[id], a)
		}
	}
	return out, nil
}

type stubUsers struct{}

func (stubUsers) GetUser(ctx context.Context, id string) (*userbiz.User, error) {
	return &userbiz.User{ID: id, Email: "curator@example.com", FullName: "Ada Curator"}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(repo biz.CollectionRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := NewCollectionService(biz.NewCollectionUseCase(repo, nil), stubUsers{}, logger.Nop())
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Next()
	})
	return r
}

func do(t *testing.T, r http.Handler, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func milkmaid() *types.Artwork {
	return &types.Artwork{
		ID:     "rijks-SK-A-2344",
		Title:  "The Milkmaid",
		Artist: "Johannes Vermeer",
		Source: types.ProviderRijksmuseum,
	}
}

func createCollection(t *testing.T, r http.Handler) string {
	t.Helper()
	w, resp := do(t, r, http.MethodPost, "/api/v1/collections", gin.H{"name": "Vermeer"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created CollectionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	return created.ID
}

func TestAddArtworkHandler(t *testing.T) {
	tests := []struct {
		name           string
		insertConflict bool
		addTwice       bool
		wantStatus     int
		wantCode       int
	}{
		{"added", false, false, http.StatusCreated, apperrors.Success},
		{"already present", false, true, http.StatusConflict, apperrors.ErrCollectionDuplicate},
		{"unique index conflict", true, false, http.StatusConflict, apperrors.ErrCollectionDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubRepo()
			r := newRouter(repo)
			id := createCollection(t, r)
			target := "/api/v1/collections/" + id + "/artworks"

			if tt.addTwice {
				w, _ := do(t, r, http.MethodPost, target, gin.H{"artwork": milkmaid()})
				require.Equal(t, http.StatusCreated, w.Code)
			}
			repo.insertConflict = tt.insertConflict

			w, resp := do(t, r, http.MethodPost, target, gin.H{"artwork": milkmaid()})
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantStatus == http.StatusConflict {
				assert.Contains(t, resp.Message, "already in the collection")
			}
		})
	}
}

func TestAddArtworkHandlerErrors(t *testing.T) {
	r := newRouter(newStubRepo())
	id := createCollection(t, r)

	tests := []struct {
		name       string
		target     string
		body       any
		wantStatus int
		wantCode   int
	}{
		{"unknown collection", "/api/v1/collections/missing/artworks", gin.H{"artwork": milkmaid()}, http.StatusNotFound, apperrors.ErrCollectionNotFound},
		{"artwork without id", "/api/v1/collections/" + id + "/artworks", gin.H{"artwork": gin.H{"title": "x"}}, http.StatusBadRequest, apperrors.ErrCollectionInvalidInput},
		{"missing artwork", "/api/v1/collections/" + id + "/artworks", gin.H{}, http.StatusBadRequest, apperrors.ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, r, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestCreateCollectionHandler(t *testing.T) {
	r := newRouter(newStubRepo())

	w, resp := do(t, r, http.MethodPost, "/api/v1/collections", gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCollectionNameRequired, resp.Code)

	w, resp = do(t, r, http.MethodPost, "/api/v1/collections", gin.H{"name": "Impressionists", "artwork": milkmaid()})
	require.Equal(t, http.StatusCreated, w.Code)

	var created CollectionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "Impressionists", created.Name)
	require.Len(t, created.Artworks, 1)
	assert.Equal(t, "rijks-SK-A-2344", created.Artworks[0].ID)
}
