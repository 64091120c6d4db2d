package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"buynest/internal/models"
)

// MockSupplierRepository is an in-memory implementation of SupplierRepository.
// It shares a MockProductRepository so CreateLinked can apply the stock
// reconciliation the same way the GORM implementation does in a transaction.
type MockSupplierRepository struct {
	suppliers map[string]models.Supplier
	products  *MockProductRepository
	seq       int // strictly orders creation times for LatestByProductID
	mu        sync.RWMutex
}

// NewMockSupplierRepository creates a new instance of MockSupplierRepository
// backed by the given product repository.
func NewMockSupplierRepository(products *MockProductRepository) *MockSupplierRepository {
	return &MockSupplierRepository{
		suppliers: make(map[string]models.Supplier),
		products:  products,
	}
}

// GetAll returns all suppliers, most recently created first.
func (r *MockSupplierRepository) GetAll() ([]models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplierList := make([]models.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		supplierList = append(supplierList, s)
	}
	sort.Slice(supplierList, func(i, j int) bool {
		return supplierList[i].CreatedAt.After(supplierList[j].CreatedAt)
	})
	return supplierList, nil
}

// GetBySupplierID returns a supplier by its canonical identifier.
func (r *MockSupplierRepository) GetBySupplierID(supplierID string) (*models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.suppliers[supplierID]
	if !ok {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}
	return &supplier, nil
}

// LatestByProductID returns the most recently created supplier linked to the
// given product.
func (r *MockSupplierRepository) LatestByProductID(productID string) (*models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Supplier
	for id := range r.suppliers {
		s := r.suppliers[id]
		if s.ProductID != productID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no supplier linked to product %s: %w", productID, ErrNotFound)
	}
	return latest, nil
}

// CreateLinked stores the supplier and increments the linked product's stock.
// The identifier check and insert happen under the write lock, giving the
// same at-most-one-winner behavior as the database's unique index.
func (r *MockSupplierRepository) CreateLinked(supplier *models.Supplier) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.suppliers[supplier.SupplierID]; exists {
		return nil, fmt.Errorf("supplier %s: %w", supplier.SupplierID, ErrDuplicateKey)
	}

	product, err := r.products.IncrementStock(supplier.ProductID, supplier.Stock)
	if err != nil {
		return nil, err
	}

	r.seq++
	supplier.CreatedAt = time.Now().Add(time.Duration(r.seq)) // keep creation order strict
	supplier.UpdatedAt = supplier.CreatedAt
	r.suppliers[supplier.SupplierID] = *supplier
	return product, nil
}

// Update applies a partial update. Patch keys are the GORM column names.
func (r *MockSupplierRepository) Update(supplierID string, patch map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	supplier, ok := r.suppliers[supplierID]
	if !ok {
		return fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}
	for column, value := range patch {
		switch column {
		case "email":
			supplier.Email = value.(string)
		case "name":
			supplier.Name = value.(string)
		case "stock":
			supplier.Stock = value.(int)
		case "cost":
			supplier.Cost = value.(float64)
		case "contact_no":
			supplier.ContactNo = value.(string)
		}
	}
	supplier.UpdatedAt = time.Now()
	r.suppliers[supplierID] = supplier
	return nil
}

// Delete removes a supplier by its canonical identifier.
func (r *MockSupplierRepository) Delete(supplierID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.suppliers[supplierID]; !ok {
		return fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}
	delete(r.suppliers, supplierID)
	return nil
}
