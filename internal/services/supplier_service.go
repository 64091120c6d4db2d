package services

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"buynest/internal/ident"
	"buynest/internal/models"
	"buynest/internal/repositories"
	"buynest/pkg/rabbitmq"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// SupplierService handles supplier registration and the stock reconciliation
// that goes with it: a supplier record is only ever persisted together with
// the matching increment of the linked product's stock.
type SupplierService struct {
	supplierRepo repositories.SupplierRepository
	productRepo  repositories.ProductRepository
	mqClient     *rabbitmq.Client // RabbitMQ client, optional
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(supplierRepo repositories.SupplierRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		mqClient:     mqClient,
	}
}

// GetAllSuppliers retrieves all supplier linkages.
func (s *SupplierService) GetAllSuppliers() ([]models.Supplier, error) {
	return s.supplierRepo.GetAll()
}

// RegisterSupplier registers a supplier delivery against an existing product.
// Preconditions are checked in a fixed order, each with its own failure:
// required fields, product existence, digit-only identifier fragment, minted
// identifier unused, and contact number format. Only after all of them pass
// is anything written, and the product stock increment and supplier insert
// land as one atomic unit in the repository.
func (s *SupplierService) RegisterSupplier(input models.SupplierInput) (*models.Supplier, *models.Product, error) {
	// 1. Required fields.
	required := []struct{ field, value string }{
		{"supplierId", input.SupplierID},
		{"productId", input.ProductID},
		{"email", input.Email},
		{"Name", input.Name},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, nil, fmt.Errorf("%s: %w", r.field, ErrMissingField)
		}
	}

	// 2. The referenced product must exist before the identifier is minted.
	if _, err := s.productRepo.GetByProductID(input.ProductID); err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf("product %s: %w", input.ProductID, ErrProductNotFound)
		}
		return nil, nil, fmt.Errorf("failed to look up product %s: %w", input.ProductID, err)
	}

	// 3. Digit-only fragment, minted to the canonical form.
	supplierID, err := ident.MintSupplier(input.SupplierID)
	if err != nil {
		return nil, nil, err
	}

	// 4. Pre-check the minted identifier; the unique index catches races.
	if _, err := s.supplierRepo.GetBySupplierID(supplierID); err == nil {
		return nil, nil, fmt.Errorf("supplier %s: %w", supplierID, ErrDuplicateIdentifier)
	} else if !isNotFound(err) {
		return nil, nil, fmt.Errorf("failed to check supplier %s: %w", supplierID, err)
	}

	// 5. Contact number, when present, is exactly 10 digits.
	phone := strings.TrimSpace(input.ContactNo)
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, nil, fmt.Errorf("contactNo %q: %w", phone, ErrInvalidPhone)
	}

	supplier := &models.Supplier{
		SupplierID: supplierID,
		ProductID:  input.ProductID,
		Email:      input.Email,
		Name:       input.Name,
		Stock:      input.Stock,
		Cost:       input.Cost,
		ContactNo:  phone,
	}

	// Atomic unit: product stock += supplier stock, supplier row inserted.
	product, err := s.supplierRepo.CreateLinked(supplier)
	if err != nil {
		switch {
		case isNotFound(err):
			// The product vanished between the pre-check and the write.
			return nil, nil, fmt.Errorf("product %s: %w", input.ProductID, ErrProductNotFound)
		case isDuplicate(err):
			return nil, nil, fmt.Errorf("supplier %s: %w", supplierID, ErrDuplicateIdentifier)
		default:
			return nil, nil, fmt.Errorf("failed to register supplier %s: %w", supplierID, err)
		}
	}

	// Publish a supplier.registered event. Publication failures are logged,
	// not surfaced: the registration has already committed.
	if s.mqClient != nil {
		event := map[string]interface{}{
			"supplierId": supplier.SupplierID,
			"productId":  product.ProductID,
			"delivered":  supplier.Stock,
			"stock":      product.Stock,
		}
		if err := s.mqClient.PublishInventoryEvent("supplier.registered", event); err != nil {
			log.Printf("Warning: failed to publish supplier.registered for %s: %v", supplier.SupplierID, err)
		}
	}

	return supplier, product, nil
}

// UpdateSupplier applies a partial update to a supplier linkage. Stock edits
// here change the linkage record only and never re-trigger the product stock
// reconciliation performed at registration.
func (s *SupplierService) UpdateSupplier(supplierID string, update models.SupplierUpdate) error {
	patch := map[string]interface{}{}
	if update.Email != nil {
		patch["email"] = *update.Email
	}
	if update.Name != nil {
		patch["name"] = *update.Name
	}
	if update.Stock != nil {
		patch["stock"] = *update.Stock
	}
	if update.Cost != nil {
		patch["cost"] = *update.Cost
	}
	if update.ContactNo != nil {
		phone := strings.TrimSpace(*update.ContactNo)
		if phone != "" && !phonePattern.MatchString(phone) {
			return fmt.Errorf("contactNo %q: %w", phone, ErrInvalidPhone)
		}
		patch["contact_no"] = phone
	}
	if len(patch) == 0 {
		return nil
	}

	if err := s.supplierRepo.Update(supplierID, patch); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("supplier %s: %w", supplierID, ErrSupplierNotFound)
		}
		return fmt.Errorf("failed to update supplier %s: %w", supplierID, err)
	}
	return nil
}

// DeleteSupplier deletes a supplier linkage by its canonical identifier.
func (s *SupplierService) DeleteSupplier(supplierID string) error {
	if err := s.supplierRepo.Delete(supplierID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("supplier %s: %w", supplierID, ErrSupplierNotFound)
		}
		return fmt.Errorf("failed to delete supplier %s: %w", supplierID, err)
	}
	return nil
}
