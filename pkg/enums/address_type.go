package enums

import "fmt"

// AddressType declares what an address may be used for at checkout.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
	AddressTypeBoth     AddressType = "both"
)

var validAddressTypes = []AddressType{
	AddressTypeShipping,
	AddressTypeBilling,
	AddressTypeBoth,
}

// String implements fmt.Stringer.
func (a AddressType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddressType.
func (a AddressType) IsValid() bool {
	for _, candidate := range validAddressTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// CoversShipping reports whether the address can receive deliveries.
func (a AddressType) CoversShipping() bool {
	return a == AddressTypeShipping || a == AddressTypeBoth
}

// CoversBilling reports whether the address can be billed against.
func (a AddressType) CoversBilling() bool {
	return a == AddressTypeBilling || a == AddressTypeBoth
}

// ParseAddressType converts raw input into an AddressType.
func ParseAddressType(value string) (AddressType, error) {
	for _, candidate := range validAddressTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address type %q", value)
}
