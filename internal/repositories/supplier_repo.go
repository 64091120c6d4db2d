package repositories

import (
	"buynest/internal/models"
)

// SupplierRepository defines the interface for supplier linkage data access.
type SupplierRepository interface {
	// GetAll lists supplier linkages, most recently created first.
	GetAll() ([]models.Supplier, error)
	GetBySupplierID(supplierID string) (*models.Supplier, error)
	// LatestByProductID resolves the most recently created supplier linked
	// to the given product. ErrNotFound when the product has no supplier.
	LatestByProductID(productID string) (*models.Supplier, error)
	// CreateLinked persists the supplier and adds its declared stock to the
	// linked product as one atomic unit: a reader never observes the
	// incremented stock without the supplier row, nor the reverse.
	// ErrNotFound when the linked product does not exist; ErrDuplicateKey
	// when the supplier identifier is already in use.
	CreateLinked(supplier *models.Supplier) (*models.Product, error)
	Update(supplierID string, patch map[string]interface{}) error
	Delete(supplierID string) error
}
