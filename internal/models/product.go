package models

import "gorm.io/gorm"

// Product represents a catalog product. ProductID is the canonical
// "BYNPD"-prefixed identifier minted at registration and never changes.
type Product struct {
	ProductID     string   `json:"productId" gorm:"uniqueIndex;type:varchar(36)"`
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	Description   string   `json:"description" validate:"omitempty,max=2000"`
	Categories    []string `json:"categories" gorm:"serializer:json"`
	Images        []string `json:"images" gorm:"serializer:json"`
	LabelledPrice float64  `json:"labelledPrice"`
	Price         float64  `json:"price"`
	Stock         int      `json:"stock"`
	IsAvailable   bool     `json:"isAvailable"`
	gorm.Model    `json:"-"` // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductInput is the request body for product registration. ProductID holds
// the raw numeric fragment supplied by the caller, not the canonical form.
type ProductInput struct {
	ProductID     string   `json:"productId" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	Images        []string `json:"images"`
	LabelledPrice float64  `json:"labelledPrice"`
	Price         float64  `json:"price"`
	Stock         int      `json:"stock" validate:"gte=0"`
	IsAvailable   bool     `json:"isAvailable"`
}

// ProductUpdate holds the updatable fields of a product. Pointer fields
// distinguish "not provided" from zero values; ProductID is deliberately
// absent because identifiers are immutable once issued.
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Images        []string `json:"images,omitempty"`
	LabelledPrice *float64 `json:"labelledPrice,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	IsAvailable   *bool    `json:"isAvailable,omitempty"`
}
