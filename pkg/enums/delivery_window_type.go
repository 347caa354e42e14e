package enums

import "fmt"

// DeliveryWindowType distinguishes drop-off deliveries from pickups.
type DeliveryWindowType string

const (
	DeliveryWindowTypeDelivery DeliveryWindowType = "DELIVERY"
	DeliveryWindowTypePickup   DeliveryWindowType = "PICKUP"
)

var validDeliveryWindowTypes = []DeliveryWindowType{
	DeliveryWindowTypeDelivery,
	DeliveryWindowTypePickup,
}

// String implements fmt.Stringer.
func (d DeliveryWindowType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryWindowType.
func (d DeliveryWindowType) IsValid() bool {
	for _, candidate := range validDeliveryWindowTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryWindowType converts raw input into a DeliveryWindowType.
func ParseDeliveryWindowType(value string) (DeliveryWindowType, error) {
	for _, candidate := range validDeliveryWindowTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery window type %q", value)
}
