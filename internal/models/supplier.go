package models

import "gorm.io/gorm"

// Supplier represents one delivery/contract linkage from a supplier to a
// product. SupplierID is the canonical "BYNSP"-prefixed identifier; Stock is
// the quantity delivered under this linkage, not the product's running total.
// The JSON field names mirror the public API, which capitalizes "Name".
type Supplier struct {
	SupplierID string  `json:"supplierId" gorm:"uniqueIndex;type:varchar(36)"`
	ProductID  string  `json:"productId" gorm:"index;type:varchar(36)"`
	Email      string  `json:"email"`
	Name       string  `json:"Name"`
	Stock      int     `json:"stock"`
	Cost       float64 `json:"cost"`
	ContactNo  string  `json:"contactNo,omitempty"`
	gorm.Model `json:"-"`
}

// SupplierInput is the request body for supplier registration. SupplierID
// holds the raw numeric fragment; the canonical identifier is minted by the
// service after the product linkage has been verified.
type SupplierInput struct {
	SupplierID string  `json:"supplierId"`
	ProductID  string  `json:"productId"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Name       string  `json:"Name"`
	Stock      int     `json:"stock" validate:"gte=0"`
	Cost       float64 `json:"cost"`
	ContactNo  string  `json:"contactNo"`
}

// SupplierUpdate holds the updatable fields of a supplier linkage. Changing
// Stock here edits the linkage record only; it never re-runs the product
// stock reconciliation performed at registration.
type SupplierUpdate struct {
	Email     *string  `json:"email,omitempty"`
	Name      *string  `json:"Name,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	ContactNo *string  `json:"contactNo,omitempty"`
}
