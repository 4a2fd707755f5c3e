package types

import "strings"

// Address is the structured shipping/billing blob stored on an order. It is
// persisted as JSON, not normalized columns.
type Address struct {
	Street     string  `json:"street" validate:"required"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	FullName   string  `json:"full_name" validate:"required"`
	Phone      *string `json:"phone,omitempty"`
}

// IsZero reports whether no address fields were provided.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == "" &&
		strings.TrimSpace(a.FullName) == ""
}
