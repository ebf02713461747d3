package oui

import (
	"fmt"
	"net"
	"strings"
)

// MACAddress is a value object representing a validated 48-bit MAC address
type MACAddress struct {
	address net.HardwareAddr
}

// ParseMAC parses a MAC address string into a MACAddress value object.
// Supports formats: "XX:XX:XX:XX:XX:XX", "XX-XX-XX-XX-XX-XX",
// "XXXX.XXXX.XXXX", "XXXXXXXXXXXX"
func ParseMAC(s string) (MACAddress, error) {
	if s == "" {
		return MACAddress{}, ErrEmptyMAC
	}

	normalized := s

	// If no separators, add them (assumes 12 hex chars)
	if !strings.ContainsAny(s, ":-.") && len(s) == 12 {
		parts := make([]string, 0, 6)
		for i := 0; i < len(s); i += 2 {
			parts = append(parts, s[i:i+2])
		}
		normalized = strings.Join(parts, ":")
	}

	hw, err := net.ParseMAC(normalized)
	if err != nil || len(hw) != 6 {
		return MACAddress{}, &ValidationError{
			Field: "mac",
			Value: s,
			Err:   ErrInvalidMAC,
		}
	}

	return MACAddress{address: hw}, nil
}

// MustParseMAC parses a MAC address and panics on error.
// Only use in tests or with known-valid input.
func MustParseMAC(s string) MACAddress {
	mac, err := ParseMAC(s)
	if err != nil {
		panic(fmt.Sprintf("invalid MAC address %q: %v", s, err))
	}
	return mac
}

// NewMACAddress creates a MACAddress from net.HardwareAddr
func NewMACAddress(hw net.HardwareAddr) MACAddress {
	return MACAddress{address: hw}
}

// Canonical returns the address as uppercase hex without separators,
// the form registry keys are stored in.
func (m MACAddress) Canonical() string {
	return fmt.Sprintf("%X", []byte(m.address))
}

// IsRandomized checks if the MAC address has the Locally Administered Address (LAA) bit set.
// This is the second least significant bit of the first octet.
func (m MACAddress) IsRandomized() bool {
	if len(m.address) == 0 {
		return false
	}
	return (m.address[0] & 0x02) != 0
}

// IsMulticast checks if the MAC address is a multicast address.
// This is the least significant bit of the first octet.
func (m MACAddress) IsMulticast() bool {
	if len(m.address) == 0 {
		return false
	}
	return (m.address[0] & 0x01) != 0
}

// String returns the MAC address in standard format "XX:XX:XX:XX:XX:XX"
func (m MACAddress) String() string {
	return strings.ToUpper(m.address.String())
}

// HardwareAddr returns the underlying net.HardwareAddr
func (m MACAddress) HardwareAddr() net.HardwareAddr {
	return m.address
}

// IsValid returns true if the MAC address is valid (non-empty)
func (m MACAddress) IsValid() bool {
	return len(m.address) > 0
}
