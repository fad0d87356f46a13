package dto

import "time"

// CreateAdDTO posts a listing into the caller's apartment.
type CreateAdDTO struct {
	Title         string     `json:"title" binding:"required,min=3,max=100"`
	Description   string     `json:"description" binding:"required,max=10000"`
	Category      string     `json:"category" binding:"required,max=20"`
	AdType        string     `json:"adType" binding:"required,oneof=sale rental"`
	Price         float64    `json:"price" binding:"gte=0"`
	Negotiable    bool       `json:"negotiable"`
	Condition     string     `json:"condition" binding:"omitempty,max=20"`
	AvailableFrom *time.Time `json:"availableFrom"`
	PublishFlatNo bool       `json:"publishFlatNo"`
	ApartmentID   uint64     `json:"apartmentId" binding:"required"`
}

type UpdateAdDTO struct {
	Title         *string    `json:"title" binding:"omitempty,min=3,max=100"`
	Description   *string    `json:"description" binding:"omitempty,max=10000"`
	Category      *string    `json:"category" binding:"omitempty,max=20"`
	Price         *float64   `json:"price" binding:"omitempty,gte=0"`
	Negotiable    *bool      `json:"negotiable"`
	Condition     *string    `json:"condition" binding:"omitempty,max=20"`
	AvailableFrom *time.Time `json:"availableFrom"`
	PublishFlatNo *bool      `json:"publishFlatNo"`
	Active        *bool      `json:"active"`
}

// AdImageView pairs the public URLs of a photo and its thumbnail.
type AdImageView struct {
	ID       uint64 `json:"id"`
	ImageURL string `json:"imageUrl"`
	ThumbURL string `json:"thumbUrl"`
}

// AdView is a listing as shown to browsers, with resolved image URLs and
// a friendly posted-age string.
type AdView struct {
	ID            uint64        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Category      string        `json:"category"`
	AdType        string        `json:"adType"`
	Price         float64       `json:"price"`
	Negotiable    bool          `json:"negotiable"`
	Condition     string        `json:"condition"`
	AvailableFrom *time.Time    `json:"availableFrom"`
	PublishFlatNo bool          `json:"publishFlatNo"`
	PostedBy      uint64        `json:"postedBy"`
	ApartmentID   uint64        `json:"apartmentId"`
	Active        bool          `json:"active"`
	Sold          bool          `json:"sold"`
	PostedAgo     string        `json:"postedAgo"`
	Images        []AdImageView `json:"images"`
}
