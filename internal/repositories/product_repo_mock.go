package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"buynest/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository,
// keyed by canonical product identifier.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns products, most recently created first.
func (r *MockProductRepository) GetAll(includeHidden bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if !includeHidden && !p.IsAvailable {
			continue
		}
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})
	return productList, nil
}

// SearchByName returns products whose name contains the query, ignoring case.
func (r *MockProductRepository) SearchByName(query string, includeHidden bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	var productList []models.Product
	for _, p := range r.products {
		if !includeHidden && !p.IsAvailable {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), query) {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// GetByCategory returns products carrying the given category, ignoring case.
func (r *MockProductRepository) GetByCategory(category string, includeHidden bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if !includeHidden && !p.IsAvailable {
			continue
		}
		for _, c := range p.Categories {
			if strings.EqualFold(c, category) {
				productList = append(productList, p)
				break
			}
		}
	}
	return productList, nil
}

// GetByProductID returns a product by its canonical identifier.
func (r *MockProductRepository) GetByProductID(productID string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product, rejecting identifier collisions.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ProductID]; exists {
		return fmt.Errorf("product %s: %w", product.ProductID, ErrDuplicateKey)
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	r.products[product.ProductID] = *product
	return nil
}

// Update applies a partial update. Patch keys are the GORM column names.
func (r *MockProductRepository) Update(productID string, patch map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	for column, value := range patch {
		switch column {
		case "name":
			product.Name = value.(string)
		case "description":
			product.Description = value.(string)
		case "categories":
			product.Categories = value.([]string)
		case "images":
			product.Images = value.([]string)
		case "labelled_price":
			product.LabelledPrice = value.(float64)
		case "price":
			product.Price = value.(float64)
		case "stock":
			product.Stock = value.(int)
		case "is_available":
			product.IsAvailable = value.(bool)
		}
	}
	product.UpdatedAt = time.Now()
	r.products[productID] = product
	return nil
}

// Delete removes a product by its canonical identifier.
func (r *MockProductRepository) Delete(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	delete(r.products, productID)
	return nil
}

// IncrementStock adds delta to the product's stock under the write lock, so
// concurrent increments never lose updates.
func (r *MockProductRepository) IncrementStock(productID string, delta int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.incrementStockLocked(productID, delta)
}

func (r *MockProductRepository) incrementStockLocked(productID string, delta int) (*models.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	product.Stock += delta
	product.UpdatedAt = time.Now()
	r.products[productID] = product
	return &product, nil
}
