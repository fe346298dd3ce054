package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/dto"
	"github.com/ericLeal19/compleal/models"
	"github.com/ericLeal19/compleal/scraper"
	"github.com/ericLeal19/compleal/utils"
)

// loadCatalog reads and decodes the full product list. The raw entries are
// returned alongside so update can rewrite a single position.
func loadCatalog(ctx context.Context, store database.Store) ([]models.Product, []string, error) {
	raw, err := store.ListRange(ctx, database.ProductsKey)
	if err != nil {
		return nil, nil, err
	}
	products := make([]models.Product, 0, len(raw))
	for _, entry := range raw {
		var p models.Product
		if err := json.Unmarshal([]byte(entry), &p); err != nil {
			return nil, nil, fmt.Errorf("registro de produto inválido: %w", err)
		}
		products = append(products, p)
	}
	return products, raw, nil
}

// GET /api/admin
// Lists every stored product.
func ListProducts(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, _, err := loadCatalog(c.Request.Context(), store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao listar", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /api/admin
// Registers a product, enriching it with scraped
// title/thumbnail. The id derives from the post-redirect URL so shortened
// affiliate URLs and the canonical page land on the same record.
func AddProduct(store database.Store, extractor *scraper.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido", "details": err.Error()})
			return
		}
		if body.PageURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Campo "page_url" é obrigatório.`})
			return
		}
		if body.AffiliateLink == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Campo "affiliate_link" é obrigatório.`})
			return
		}

		ctx := c.Request.Context()
		meta := extractor.Extract(ctx, body.PageURL)

		idSource := meta.FinalURL
		if idSource == "" {
			idSource = body.PageURL
		}
		id := utils.DeriveProductID(idSource)

		existing, _, err := loadCatalog(ctx, store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}
		for _, p := range existing {
			if p.ID == id || p.PageURL == body.PageURL {
				c.JSON(http.StatusConflict, gin.H{"error": "Produto já cadastrado."})
				return
			}
		}

		title := meta.Title
		if title == "" {
			title = "Produto sem título"
		}

		product := models.Product{
			ID:            id,
			Title:         title,
			Slug:          utils.GenerateSlug(title),
			AffiliateLink: body.AffiliateLink,
			PageURL:       body.PageURL,
			ScrapedAt:     time.Now().UTC(),
		}
		if meta.Thumbnail != "" {
			product.Thumbnail = &meta.Thumbnail
		}
		if body.Condition != nil && *body.Condition != "" {
			product.Condition = body.Condition
		}
		if body.Price != nil {
			price := float64(*body.Price)
			product.Price = &price
		}
		if body.ReviewsRating != nil {
			product.Reviews = &models.Reviews{Rating: float64(*body.ReviewsRating)}
			if body.ReviewsCount != nil {
				count := int(*body.ReviewsCount)
				product.Reviews.Count = &count
			}
		}
		if body.Sold != nil {
			sold := int(*body.Sold)
			product.Sold = &sold
		}

		encoded, err := json.Marshal(product)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}
		if err := store.ListAppend(ctx, database.ProductsKey, string(encoded)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"mensagem": "Produto adicionado!", "produto": product})
	}
}

// PUT /api/admin?id=
// Partial update: only the fields present in the body
// overwrite the stored record, which is replaced in place at its list
// position. This read-then-LSET sequence is not atomic against concurrent
// writers.
func UpdateProduct(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Parâmetro "id" é obrigatório.`})
			return
		}

		var body dto.UpdateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido", "details": err.Error()})
			return
		}

		ctx := c.Request.Context()
		products, _, err := loadCatalog(ctx, store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao editar", "details": err.Error()})
			return
		}

		idx := -1
		for i, p := range products {
			if p.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado."})
			return
		}

		product := products[idx]
		if body.Title != nil && *body.Title != "" {
			product.Title = *body.Title
			product.Slug = utils.GenerateSlug(*body.Title)
		}
		if body.Thumbnail != nil && *body.Thumbnail != "" {
			product.Thumbnail = body.Thumbnail
		}
		if body.Condition != nil {
			if *body.Condition == "" {
				product.Condition = nil
			} else {
				product.Condition = body.Condition
			}
		}
		if body.Price != nil {
			price := float64(*body.Price)
			product.Price = &price
		}
		if body.ReviewsRating != nil {
			product.Reviews = &models.Reviews{Rating: float64(*body.ReviewsRating)}
			if body.ReviewsCount != nil {
				count := int(*body.ReviewsCount)
				product.Reviews.Count = &count
			}
		}
		if body.Sold != nil {
			sold := int(*body.Sold)
			product.Sold = &sold
		}
		now := time.Now().UTC()
		product.UpdatedAt = &now

		encoded, err := json.Marshal(product)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao editar", "details": err.Error()})
			return
		}
		if err := store.ListSet(ctx, database.ProductsKey, int64(idx), string(encoded)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao editar", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"mensagem": "Produto atualizado!", "produto": product})
	}
}

// DELETE /api/admin?id=
// Removes every record with the id by rebuilding the
// list. An empty result leaves the key deleted instead of an empty list.
func DeleteProduct(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": `Parâmetro "id" é obrigatório.`})
			return
		}

		ctx := c.Request.Context()
		products, raw, err := loadCatalog(ctx, store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao remover", "details": err.Error()})
			return
		}

		kept := make([]string, 0, len(raw))
		for i, p := range products {
			if p.ID != id {
				kept = append(kept, raw[i])
			}
		}

		if err := store.Del(ctx, database.ProductsKey); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao remover", "details": err.Error()})
			return
		}
		if len(kept) > 0 {
			if err := store.ListAppend(ctx, database.ProductsKey, kept...); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao remover", "details": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"mensagem": fmt.Sprintf("Produto %s removido.", id)})
	}
}
