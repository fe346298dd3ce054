package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/middleware"
	"github.com/ericLeal19/compleal/models"
	"github.com/ericLeal19/compleal/utils"
)

func newFavoritesRouter(store database.Store) *gin.Engine {
	r := gin.New()
	auth := r.Group("/api/favoritos", middleware.AuthMiddleware(testJWTSecret))
	auth.GET("", ListFavorites(store))
	auth.POST("", AddFavorite(store))
	auth.DELETE("", RemoveFavorite(store))
	return r
}

func bearerFor(t *testing.T, userID string) map[string]string {
	t.Helper()
	token, err := utils.GenerateSessionToken(userID, "ana@exemplo.com", "Ana", "Silva", testJWTSecret)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestFavoritesRequireToken(t *testing.T) {
	store := database.NewMemoryStore()
	r := newFavoritesRouter(store)

	w := perform(r, http.MethodGet, "/api/favoritos", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/api/favoritos", nil,
		map[string]string{"Authorization": "Bearer token-invalido"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoritesAddListRemove(t *testing.T) {
	store := database.NewMemoryStore()
	r := newFavoritesRouter(store)
	headers := bearerFor(t, "u-1")

	seedProduct(t, store, models.Product{ID: "MLB1", Title: "Notebook"})
	seedProduct(t, store, models.Product{ID: "MLB2", Title: "Mouse"})

	w := perform(r, http.MethodPost, "/api/favoritos", gin.H{"produto_id": "MLB1"}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	// adding twice keeps a single entry
	w = perform(r, http.MethodPost, "/api/favoritos", gin.H{"produto_id": "MLB1"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/api/favoritos", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var favorites []models.Product
	decodeBody(t, w, &favorites)
	require.Len(t, favorites, 1)
	assert.Equal(t, "MLB1", favorites[0].ID)
	assert.Equal(t, "Notebook", favorites[0].Title)

	w = perform(r, http.MethodDelete, "/api/favoritos?id=MLB1", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	// removing again is a no-op
	w = perform(r, http.MethodDelete, "/api/favoritos?id=MLB1", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/api/favoritos", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &favorites)
	assert.Empty(t, favorites)
}

func TestFavoritesDropDeletedProducts(t *testing.T) {
	store := database.NewMemoryStore()
	r := newFavoritesRouter(store)
	headers := bearerFor(t, "u-1")

	seedProduct(t, store, models.Product{ID: "MLB1", Title: "Notebook"})
	w := perform(r, http.MethodPost, "/api/favoritos", gin.H{"produto_id": "MLB1"}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(r, http.MethodPost, "/api/favoritos", gin.H{"produto_id": "SUMIU"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/api/favoritos", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var favorites []models.Product
	decodeBody(t, w, &favorites)
	require.Len(t, favorites, 1)
	assert.Equal(t, "MLB1", favorites[0].ID)
}

func TestFavoritesAreScopedPerUser(t *testing.T) {
	store := database.NewMemoryStore()
	r := newFavoritesRouter(store)

	seedProduct(t, store, models.Product{ID: "MLB1", Title: "Notebook"})

	w := perform(r, http.MethodPost, "/api/favoritos", gin.H{"produto_id": "MLB1"}, bearerFor(t, "u-1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/api/favoritos", nil, bearerFor(t, "u-2"))
	require.Equal(t, http.StatusOK, w.Code)

	var favorites []models.Product
	decodeBody(t, w, &favorites)
	assert.Empty(t, favorites)
}

func TestAddFavoriteRequiresProductID(t *testing.T) {
	store := database.NewMemoryStore()
	r := newFavoritesRouter(store)

	w := perform(r, http.MethodPost, "/api/favoritos", gin.H{}, bearerFor(t, "u-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodDelete, "/api/favoritos", nil, bearerFor(t, "u-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoritesEmptySetListsEmpty(t *testing.T) {
	store := database.NewMemoryStore()
	r := newFavoritesRouter(store)

	w := perform(r, http.MethodGet, "/api/favoritos", nil, bearerFor(t, "u-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	members, err := store.SetMembers(context.Background(), database.FavoritesKey("u-1"))
	require.NoError(t, err)
	assert.Empty(t, members)
}
