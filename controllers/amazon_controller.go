package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const amazonSearchURL = "https://amazon-price1.p.rapidapi.com/search?keywords=notebook&marketplace=BR"

type amazonResult struct {
	Result []struct {
		ASIN  string `json:"asin"`
		Title string `json:"title"`
		Price struct {
			CurrentPrice float64 `json:"current_price"`
		} `json:"price"`
		Thumbnail string `json:"thumbnail"`
		Reviews   struct {
			Rating       float64 `json:"rating"`
			TotalReviews int     `json:"total_reviews"`
		} `json:"reviews"`
	} `json:"result"`
}

// GET /api/produtos-amazon
// Amazon search through the RapidAPI price API,
// shaped to the same card projection the frontend renders.
func SearchAmazon(rapidAPIKey, affiliateTag string) gin.HandlerFunc {
	return searchAmazon(amazonSearchURL, rapidAPIKey, affiliateTag)
}

func searchAmazon(searchURL, rapidAPIKey, affiliateTag string) gin.HandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}
	return func(c *gin.Context) {
		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, searchURL, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha na busca"})
			return
		}
		req.Header.Set("X-RapidAPI-Key", rapidAPIKey)
		req.Header.Set("X-RapidAPI-Host", "amazon-price1.p.rapidapi.com")

		resp, err := client.Do(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha na busca", "details": err.Error()})
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha na busca", "details": err.Error()})
			return
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha na busca", "details": string(body)})
			return
		}

		var data amazonResult
		if err := json.Unmarshal(body, &data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha na busca", "details": err.Error()})
			return
		}

		produtos := make([]gin.H, 0, len(data.Result))
		for _, item := range data.Result {
			produtos = append(produtos, gin.H{
				"id":            item.ASIN,
				"title":         item.Title,
				"price":         item.Price.CurrentPrice,
				"thumbnail":     item.Thumbnail,
				"permalink":     fmt.Sprintf("https://www.amazon.com.br/dp/%s?tag=%s", item.ASIN, affiliateTag),
				"rating":        item.Reviews.Rating,
				"sold_quantity": item.Reviews.TotalReviews,
			})
		}

		c.JSON(http.StatusOK, produtos)
	}
}
