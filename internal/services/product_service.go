package services

import (
	"fmt"

	"buynest/internal/ident"
	"buynest/internal/models"
	"buynest/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// RegisterProduct mints the canonical product identifier from the input's
// numeric fragment and persists the product. The minted identifier must be
// unused; a collision detected either by the pre-check or by the storage
// layer's unique constraint reports as ErrDuplicateIdentifier.
func (s *ProductService) RegisterProduct(input models.ProductInput) (*models.Product, error) {
	productID, err := ident.MintProduct(input.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByProductID(productID); err == nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrDuplicateIdentifier)
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check product %s: %w", productID, err)
	}

	product := &models.Product{
		ProductID:     productID,
		Name:          input.Name,
		Description:   input.Description,
		Categories:    input.Categories,
		Images:        input.Images,
		LabelledPrice: input.LabelledPrice,
		Price:         input.Price,
		Stock:         input.Stock,
		IsAvailable:   input.IsAvailable,
	}

	if err := s.repo.Create(product); err != nil {
		if isDuplicate(err) {
			// Lost the race between pre-check and insert.
			return nil, fmt.Errorf("product %s: %w", productID, ErrDuplicateIdentifier)
		}
		return nil, fmt.Errorf("failed to create product %s: %w", productID, err)
	}
	return product, nil
}

// GetAllProducts retrieves products. Admin callers also see products that
// are not flagged available.
func (s *ProductService) GetAllProducts(isAdmin bool) ([]models.Product, error) {
	return s.repo.GetAll(isAdmin)
}

// SearchProducts retrieves products whose name contains the query. An empty
// query returns no results rather than the whole catalog.
func (s *ProductService) SearchProducts(query string, isAdmin bool) ([]models.Product, error) {
	if query == "" {
		return []models.Product{}, nil
	}
	return s.repo.SearchByName(query, isAdmin)
}

// GetProductsByCategory retrieves products carrying the given category.
func (s *ProductService) GetProductsByCategory(category string, isAdmin bool) ([]models.Product, error) {
	if category == "" {
		return nil, fmt.Errorf("category: %w", ErrMissingField)
	}
	return s.repo.GetByCategory(category, isAdmin)
}

// GetProductByID retrieves a single product by its canonical identifier.
func (s *ProductService) GetProductByID(productID string) (*models.Product, error) {
	product, err := s.repo.GetByProductID(productID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// UpdateProduct applies a partial update to a product. The canonical
// identifier is immutable and never part of the patch.
func (s *ProductService) UpdateProduct(productID string, update models.ProductUpdate) error {
	patch := map[string]interface{}{}
	if update.Name != nil {
		patch["name"] = *update.Name
	}
	if update.Description != nil {
		patch["description"] = *update.Description
	}
	if update.Categories != nil {
		patch["categories"] = update.Categories
	}
	if update.Images != nil {
		patch["images"] = update.Images
	}
	if update.LabelledPrice != nil {
		patch["labelled_price"] = *update.LabelledPrice
	}
	if update.Price != nil {
		patch["price"] = *update.Price
	}
	if update.Stock != nil {
		patch["stock"] = *update.Stock
	}
	if update.IsAvailable != nil {
		patch["is_available"] = *update.IsAvailable
	}
	if len(patch) == 0 {
		return nil
	}

	if err := s.repo.Update(productID, patch); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
		}
		return fmt.Errorf("failed to update product %s: %w", productID, err)
	}
	return nil
}

// DeleteProduct deletes a product by its canonical identifier.
func (s *ProductService) DeleteProduct(productID string) error {
	if err := s.repo.Delete(productID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
		}
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	return nil
}
