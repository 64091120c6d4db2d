package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Prefixes for the two identifier kinds issued by the catalog.
const (
	ProductPrefix  = "BYNPD"
	SupplierPrefix = "BYNSP"
)

// Width is the nominal number of digits in a canonical identifier. Fragments
// shorter than this are zero-padded; longer fragments are kept in full.
const Width = 5

// ErrInvalidFragment is returned when the supplied fragment is empty or
// contains anything other than decimal digits.
var ErrInvalidFragment = errors.New("identifier fragment must contain digits only")

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Mint derives the canonical identifier for prefix from a raw numeric
// fragment. The fragment is trimmed and must be pure digits; no sign, decimal
// point or surrounding characters are accepted. Padding applies to the
// numeral string itself, so "123456" mints to prefix+"123456" untruncated.
// Mint is deterministic; uniqueness is enforced by the storage layer, not here.
func Mint(prefix, fragment string) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if !digitsOnly.MatchString(fragment) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFragment, fragment)
	}
	if pad := Width - len(fragment); pad > 0 {
		fragment = strings.Repeat("0", pad) + fragment
	}
	return prefix + fragment, nil
}

// MintProduct mints a canonical product identifier.
func MintProduct(fragment string) (string, error) {
	return Mint(ProductPrefix, fragment)
}

// MintSupplier mints a canonical supplier identifier.
func MintSupplier(fragment string) (string, error) {
	return Mint(SupplierPrefix, fragment)
}
