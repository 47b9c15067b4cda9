package enums

import "fmt"

// VariantStatus represents the sellable state of a product variant.
type VariantStatus string

const (
	VariantStatusActive     VariantStatus = "active"
	VariantStatusInactive   VariantStatus = "inactive"
	VariantStatusOutOfStock VariantStatus = "out_of_stock"
)

var validVariantStatuses = []VariantStatus{
	VariantStatusActive,
	VariantStatusInactive,
	VariantStatusOutOfStock,
}

// String implements fmt.Stringer.
func (s VariantStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VariantStatus.
func (s VariantStatus) IsValid() bool {
	for _, candidate := range validVariantStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseVariantStatus converts raw input into a VariantStatus.
func ParseVariantStatus(value string) (VariantStatus, error) {
	for _, candidate := range validVariantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variant status %q", value)
}
