package repositories

import (
	"buynest/internal/models"
)

// ProductRepository defines the interface for product data access. Keys are
// canonical product identifiers, not database row IDs.
type ProductRepository interface {
	// GetAll lists products. When includeHidden is false only products
	// flagged as available are returned.
	GetAll(includeHidden bool) ([]models.Product, error)
	// SearchByName lists products whose name contains the query,
	// case-insensitively, subject to the same visibility rule.
	SearchByName(query string, includeHidden bool) ([]models.Product, error)
	// GetByCategory lists products carrying the given category.
	GetByCategory(category string, includeHidden bool) ([]models.Product, error)
	GetByProductID(productID string) (*models.Product, error)
	// Create inserts a new product. A canonical-identifier collision is
	// reported as ErrDuplicateKey.
	Create(product *models.Product) error
	// Update applies a partial update to the product with the given
	// identifier. The identifier itself is never part of the patch.
	Update(productID string, patch map[string]interface{}) error
	Delete(productID string) error
	// IncrementStock atomically adds delta to the product's stock counter
	// and returns the updated product. Implementations must not read,
	// modify and write back; concurrent increments may never lose updates.
	IncrementStock(productID string, delta int) (*models.Product, error)
}
