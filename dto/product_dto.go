package dto

// CreateProductDTO is the admin payload for registering a product. Only the
// page URL and the affiliate link are required; everything else is optional
// manual curation on top of the scraped title/thumbnail.
type CreateProductDTO struct {
	PageURL       string     `json:"page_url"`
	AffiliateLink string     `json:"affiliate_link"`
	Price         *FlexFloat `json:"price"`
	ReviewsRating *FlexFloat `json:"reviews_rating"`
	ReviewsCount  *FlexInt   `json:"reviews_count"`
	Sold          *FlexInt   `json:"sold"`
	Condition     *string    `json:"condition"`
}

// UpdateProductDTO is a partial update: nil pointers leave the stored field
// untouched.
type UpdateProductDTO struct {
	Title         *string    `json:"title"`
	Thumbnail     *string    `json:"thumbnail"`
	Price         *FlexFloat `json:"price"`
	ReviewsRating *FlexFloat `json:"reviews_rating"`
	ReviewsCount  *FlexInt   `json:"reviews_count"`
	Sold          *FlexInt   `json:"sold"`
	Condition     *string    `json:"condition"`
}
