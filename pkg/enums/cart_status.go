package enums

import "fmt"

// CartStatus tracks a cart through the suggestion/approval lifecycle.
type CartStatus string

const (
	CartStatusPending   CartStatus = "PENDING"
	CartStatusSuggested CartStatus = "SUGGESTED"
	CartStatusApproved  CartStatus = "APPROVED"
	CartStatusRejected  CartStatus = "REJECTED"
)

var validCartStatuses = []CartStatus{
	CartStatusPending,
	CartStatusSuggested,
	CartStatusApproved,
	CartStatusRejected,
}

// ActiveCartStatuses are the statuses whose items count toward a
// reservation's existing-quantity baseline. Rejected carts are excluded.
var ActiveCartStatuses = []CartStatus{
	CartStatusPending,
	CartStatusSuggested,
	CartStatusApproved,
}

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	for _, candidate := range validCartStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
