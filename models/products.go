package models

import "time"

// Reviews carries the aggregated rating shown on a product card.
type Reviews struct {
	Rating float64 `json:"rating"`
	Count  *int    `json:"count"`
}

// Product is a manually curated affiliate product. The catalog is stored as a
// list of JSON-encoded records whose order is the display order.
type Product struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	Thumbnail     *string    `json:"thumbnail"`
	Condition     *string    `json:"condition"`
	Price         *float64   `json:"price"`
	Reviews       *Reviews   `json:"reviews"`
	Sold          *int       `json:"sold"`
	AffiliateLink string     `json:"affiliate_link"` // destination of the card click
	PageURL       string     `json:"page_url"`       // real product page, used for scraping
	ScrapedAt     time.Time  `json:"scraped_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
