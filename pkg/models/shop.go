package models

import (
	"time"

	"github.com/Ramsey-B/matcha/pkg/database"
)

// ShopStatus is the lifecycle state of a shop listing
type ShopStatus string

const (
	ShopStatusActive     ShopStatus = "active"
	ShopStatusClosed     ShopStatus = "closed"
	ShopStatusUnverified ShopStatus = "unverified"
)

// Shop is a physical location, optionally linked to a Brand. GooglePlaceID is
// the upstream place identifier and the sole deduplication key; it is unique
// when present but may be absent for manually entered shops.
type Shop struct {
	ID              string     `json:"id" db:"id"`
	GooglePlaceID   *string    `json:"google_place_id,omitempty" db:"google_place_id"`
	BrandID         *string    `json:"brand_id,omitempty" db:"brand_id"`
	Name            string     `json:"name" db:"name" validate:"required"`
	Address         string     `json:"address" db:"address" validate:"required"`
	City            *string    `json:"city,omitempty" db:"city"`
	Country         string     `json:"country" db:"country" validate:"required"`
	Latitude        float64    `json:"latitude" db:"latitude"`
	Longitude       float64    `json:"longitude" db:"longitude"`
	Rating          *float64   `json:"rating,omitempty" db:"rating"`
	Phone           *string    `json:"phone,omitempty" db:"phone"`
	Website         *string    `json:"website,omitempty" db:"website"`
	PhotoURL        *string    `json:"photo_url,omitempty" db:"photo_url"`
	GoogleMapsURI   *string    `json:"google_maps_uri,omitempty" db:"google_maps_uri"`
	Status          ShopStatus `json:"status" db:"status"`
	MatchConfidence *float64   `json:"match_confidence,omitempty" db:"match_confidence"`
	LastVerifiedAt  *time.Time `json:"last_verified_at,omitempty" db:"last_verified_at"`
	// Raw is the provider payload the shop was imported from, kept for
	// reprocessing. Empty for manually created shops.
	Raw database.JSONB[map[string]any] `json:"-" db:"raw"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateShopRequest is the request body for creating a shop
type CreateShopRequest struct {
	GooglePlaceID *string    `json:"google_place_id,omitempty"`
	BrandID       *string    `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	Name          string     `json:"name" validate:"required"`
	Address       string     `json:"address" validate:"required"`
	City          *string    `json:"city,omitempty"`
	Country       string     `json:"country" validate:"required"`
	Latitude      float64    `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64    `json:"longitude" validate:"min=-180,max=180"`
	Rating        *float64   `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Phone         *string    `json:"phone,omitempty"`
	Website       *string    `json:"website,omitempty" validate:"omitempty,url"`
	PhotoURL      *string    `json:"photo_url,omitempty" validate:"omitempty,url"`
	Status        ShopStatus `json:"status,omitempty" validate:"omitempty,oneof=active closed unverified"`
}

// ToShop converts the request into a Shop record ready for persistence
func (r CreateShopRequest) ToShop() Shop {
	return Shop{
		GooglePlaceID: r.GooglePlaceID,
		BrandID:       r.BrandID,
		Name:          r.Name,
		Address:       r.Address,
		City:          r.City,
		Country:       r.Country,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Rating:        r.Rating,
		Phone:         r.Phone,
		Website:       r.Website,
		PhotoURL:      r.PhotoURL,
		Status:        r.Status,
	}
}

// ShopListResponse is the API response for listing shops
type ShopListResponse struct {
	Items      []Shop `json:"items"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// ShopFilter narrows shop list queries
type ShopFilter struct {
	Country *string
	City    *string
	BrandID *string
}
