package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/mercadolivre"
	"github.com/ericLeal19/compleal/utils"
)

const (
	defaultSearchTerm  = "notebook gamer"
	defaultSearchLimit = 9
)

// refreshAndPersist runs the refresh flow with the stored refresh token and
// persists both rotated values. The provider invalidates the old refresh
// token on every call, so losing either write would break the next refresh.
func refreshAndPersist(ctx context.Context, store database.Store, ml *mercadolivre.Client) (string, error) {
	refreshToken, err := store.Get(ctx, database.MLRefreshTokenKey)
	if err != nil {
		return "", err
	}
	pair, err := ml.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if err := store.Set(ctx, database.MLAccessTokenKey, pair.AccessToken); err != nil {
		return "", err
	}
	if err := store.Set(ctx, database.MLRefreshTokenKey, pair.RefreshToken); err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// GET /api/produtos
// Public marketplace search. An expired access token
// (401) is refreshed once and the identical request retried once; a second
// 401 or a refresh failure is reported, never retried again.
func SearchProducts(store database.Store, ml *mercadolivre.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		query := c.DefaultQuery("q", defaultSearchTerm)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultSearchLimit)

		token, err := store.Get(ctx, database.MLAccessTokenKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if token == "" {
			token, err = refreshAndPersist(ctx, store, ml)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Token ausente e renovação falhou", "details": err.Error()})
				return
			}
		}

		items, err := ml.Search(ctx, query, limit, token)

		var apiErr *mercadolivre.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			log.Println("Token expirado, renovando automaticamente...")
			token, err = refreshAndPersist(ctx, store, ml)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expirado e não foi possível renovar", "details": err.Error()})
				return
			}
			items, err = ml.Search(ctx, query, limit, token)
		}

		if err != nil {
			if errors.As(err, &apiErr) {
				c.JSON(apiErr.StatusCode, gin.H{"error": "Erro da API do Mercado Livre", "details": apiErr.Body})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}

		c.Header("Cache-Control", "s-maxage=300, stale-while-revalidate")
		c.JSON(http.StatusOK, items)
	}
}
