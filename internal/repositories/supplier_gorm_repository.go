package repositories

import (
	"errors"
	"fmt"

	"buynest/internal/models"

	"gorm.io/gorm"
)

// GORMSupplierRepository is a GORM implementation of SupplierRepository.
type GORMSupplierRepository struct {
	db *gorm.DB
}

// NewGORMSupplierRepository creates a new instance of GORMSupplierRepository.
func NewGORMSupplierRepository(db *gorm.DB) *GORMSupplierRepository {
	return &GORMSupplierRepository{
		db: db,
	}
}

// GetAll retrieves all supplier linkages, most recently created first.
func (r *GORMSupplierRepository) GetAll() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.Order("created_at DESC").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all suppliers: %w", err)
	}
	return suppliers, nil
}

// GetBySupplierID retrieves a supplier by its canonical identifier.
func (r *GORMSupplierRepository) GetBySupplierID(supplierID string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.First(&supplier, "supplier_id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get supplier by ID %s: %w", supplierID, err)
	}
	return &supplier, nil
}

// LatestByProductID resolves the most recently created supplier linked to the
// given product.
func (r *GORMSupplierRepository) LatestByProductID(productID string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no supplier linked to product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get supplier for product %s: %w", productID, err)
	}
	return &supplier, nil
}

// CreateLinked inserts the supplier and adds its declared stock to the linked
// product inside one transaction. The stock change is a single
// "stock = stock + ?" UPDATE, so concurrent registrations against the same
// product serialize at the database, and the unique index on supplier_id
// keeps at-most-one-winner semantics for racing identifier fragments.
func (r *GORMSupplierRepository) CreateLinked(supplier *models.Supplier) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).Where("product_id = ?", supplier.ProductID).
			Update("stock", gorm.Expr("stock + ?", supplier.Stock))
		if res.Error != nil {
			return fmt.Errorf("failed to increment stock for product %s: %w", supplier.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %s: %w", supplier.ProductID, ErrNotFound)
		}

		if err := tx.Create(supplier).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("supplier %s: %w", supplier.SupplierID, ErrDuplicateKey)
			}
			return fmt.Errorf("failed to create supplier: %w", err)
		}

		return tx.First(&product, "product_id = ?", supplier.ProductID).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a partial update to the supplier with the given identifier.
// Stock edits here touch only the linkage record, never the product counter.
func (r *GORMSupplierRepository) Update(supplierID string, patch map[string]interface{}) error {
	res := r.db.Model(&models.Supplier{}).Where("supplier_id = ?", supplierID).Updates(patch)
	if res.Error != nil {
		return fmt.Errorf("failed to update supplier %s: %w", supplierID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}
	return nil
}

// Delete deletes a supplier by its canonical identifier.
func (r *GORMSupplierRepository) Delete(supplierID string) error {
	res := r.db.Delete(&models.Supplier{}, "supplier_id = ?", supplierID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete supplier %s: %w", supplierID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}
	return nil
}
