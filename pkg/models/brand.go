package models

import "time"

// Brand is a tea-chain identity. Name is the canonical display name and is
// unique store-wide; NameZH is an optional localized name used as an extra
// exact-match signal only.
type Brand struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name" validate:"required"`
	NameZH        *string    `json:"name_zh,omitempty" db:"name_zh"`
	Description   *string    `json:"description,omitempty" db:"description"`
	OriginCountry *string    `json:"origin_country,omitempty" db:"origin_country"`
	LogoURL       *string    `json:"logo_url,omitempty" db:"logo_url"`
	Website       *string    `json:"website,omitempty" db:"website"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateBrandRequest is the request body for creating a brand
type CreateBrandRequest struct {
	Name          string  `json:"name" validate:"required"`
	NameZH        *string `json:"name_zh,omitempty"`
	Description   *string `json:"description,omitempty"`
	OriginCountry *string `json:"origin_country,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Website       *string `json:"website,omitempty" validate:"omitempty,url"`
}

// BrandListResponse is the API response for listing brands
type BrandListResponse struct {
	Items      []Brand `json:"items"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
}
