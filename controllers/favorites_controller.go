package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/dto"
	"github.com/ericLeal19/compleal/models"
)

// GET /api/favoritos
// The favorite ids joined against the catalog. Ids
// whose product has since been deleted are silently dropped.
func ListFavorites(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := c.GetString("userID")

		ids, err := store.SetMembers(ctx, database.FavoritesKey(userID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if len(ids) == 0 {
			c.JSON(http.StatusOK, []models.Product{})
			return
		}

		products, _, err := loadCatalog(ctx, store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		byID := make(map[string]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		favorites := make([]models.Product, 0, len(ids))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				favorites = append(favorites, p)
			}
		}

		c.JSON(http.StatusOK, favorites)
	}
}

// POST /api/favoritos
// Idempotent add.
func AddFavorite(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		var body dto.FavoriteDTO
		if err := c.ShouldBindJSON(&body); err != nil || body.ProdutoID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "produto_id é obrigatório."})
			return
		}

		if err := store.SetAdd(c.Request.Context(), database.FavoritesKey(userID), body.ProdutoID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensagem": "Adicionado aos favoritos."})
	}
}

// DELETE /api/favoritos?id=
// Idempotent remove.
func RemoveFavorite(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Parâmetro "id" é obrigatório.`})
			return
		}

		if err := store.SetRemove(c.Request.Context(), database.FavoritesKey(userID), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao remover", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensagem": "Removido dos favoritos."})
	}
}
