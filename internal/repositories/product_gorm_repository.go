package repositories

import (
	"errors"
	"fmt"
	"strings"

	"buynest/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It relies on the unique index on product_id for identifier uniqueness and
// expects the gorm.Config to have TranslateError enabled so duplicate-key
// violations surface as gorm.ErrDuplicatedKey.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products, most recent first, hiding unavailable products
// from non-admin callers.
func (r *GORMProductRepository) GetAll(includeHidden bool) ([]models.Product, error) {
	var products []models.Product
	q := r.db.Order("created_at DESC")
	if !includeHidden {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// SearchByName retrieves products whose name contains the query, ignoring case.
func (r *GORMProductRepository) SearchByName(query string, includeHidden bool) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + strings.ToLower(query) + "%"
	q := r.db.Where("LOWER(name) LIKE ?", pattern)
	if !includeHidden {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", query, err)
	}
	return products, nil
}

// GetByCategory retrieves products carrying the given category, ignoring case.
// Categories are stored as a JSON array, so the match is against the quoted
// element inside the serialized column.
func (r *GORMProductRepository) GetByCategory(category string, includeHidden bool) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + strings.ToLower(fmt.Sprintf("%q", category)) + "%"
	q := r.db.Where("LOWER(categories) LIKE ?", pattern)
	if !includeHidden {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products in category %q: %w", category, err)
	}
	return products, nil
}

// GetByProductID retrieves a single product by its canonical identifier.
func (r *GORMProductRepository) GetByProductID(productID string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", productID, err)
	}
	return &product, nil
}

// Create inserts a new product. An identifier collision, whether or not it
// was caught by the caller's pre-check, is reported as ErrDuplicateKey.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product %s: %w", product.ProductID, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update applies a partial update to the product with the given identifier.
func (r *GORMProductRepository) Update(productID string, patch map[string]interface{}) error {
	res := r.db.Model(&models.Product{}).Where("product_id = ?", productID).Updates(patch)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its canonical identifier.
func (r *GORMProductRepository) Delete(productID string) error {
	res := r.db.Delete(&models.Product{}, "product_id = ?", productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// IncrementStock adds delta to the product's stock in a single UPDATE so
// concurrent increments serialize at the database instead of racing through
// a read-modify-write in process.
func (r *GORMProductRepository) IncrementStock(productID string, delta int) (*models.Product, error) {
	res := r.db.Model(&models.Product{}).Where("product_id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return r.GetByProductID(productID)
}
