package services

import (
	"errors"

	"buynest/internal/repositories"
)

// Sentinel errors for the catalog business rules. Handlers map these onto
// HTTP statuses with errors.Is; everything that does not match is treated as
// a storage or collaborator fault.
var (
	// ErrMissingField is returned when a required input field is absent.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidPhone is returned when a contact number is present but is
	// not exactly 10 digits.
	ErrInvalidPhone = errors.New("phone number must be exactly 10 digits")
	// ErrDuplicateIdentifier is returned when a minted identifier is
	// already in use, whether caught by the pre-check or by the storage
	// layer's unique constraint.
	ErrDuplicateIdentifier = errors.New("identifier already exists")
	// ErrProductNotFound is returned when the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrSupplierNotFound is returned when no supplier is linked to the product.
	ErrSupplierNotFound = errors.New("no supplier linked to this product")
	// ErrDeliveryFailed is returned when the email collaborator reports a
	// non-success delivery. No write is rolled back on this path; the
	// failure is surfaced for manual follow-up.
	ErrDeliveryFailed = errors.New("failed to deliver supplier notification")
)

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repositories.ErrDuplicateKey)
}
