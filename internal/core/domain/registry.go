package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownRegistry indicates a registry code outside the five IEEE registries.
var ErrUnknownRegistry = errors.New("unknown registry")

// Registry identifies the IEEE assignment registry a record came from.
type Registry uint8

const (
	RegistryMAL Registry = iota + 1 // MA-L, 24-bit OUI
	RegistryMAM                     // MA-M, 28-bit
	RegistryMAS                     // MA-S, 36-bit
	RegistryCID                     // CID, 24-bit company ID
	RegistryIAB                     // IAB, legacy 36-bit block
)

// LookupKeyLengths lists the key widths (hex digits) tried by a resolver,
// most specific first.
var LookupKeyLengths = [...]int{9, 7, 6}

// Registries returns every registry in declared processing order.
func Registries() []Registry {
	return []Registry{RegistryMAL, RegistryMAM, RegistryMAS, RegistryCID, RegistryIAB}
}

// ParseRegistry maps an IEEE registry code ("MA-L", "MA-M", "MA-S", "CID", "IAB").
func ParseRegistry(code string) (Registry, error) {
	switch code {
	case "MA-L":
		return RegistryMAL, nil
	case "MA-M":
		return RegistryMAM, nil
	case "MA-S":
		return RegistryMAS, nil
	case "CID":
		return RegistryCID, nil
	case "IAB":
		return RegistryIAB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRegistry, code)
}

// String returns the IEEE registry code.
func (r Registry) String() string {
	switch r {
	case RegistryMAL:
		return "MA-L"
	case RegistryMAM:
		return "MA-M"
	case RegistryMAS:
		return "MA-S"
	case RegistryCID:
		return "CID"
	case RegistryIAB:
		return "IAB"
	}
	return fmt.Sprintf("Registry(%d)", uint8(r))
}

// KeyLength returns the assignment key width in hex digits, or 0 for an
// invalid registry.
func (r Registry) KeyLength() int {
	switch r {
	case RegistryMAL, RegistryCID:
		return 6
	case RegistryMAM:
		return 7
	case RegistryMAS, RegistryIAB:
		return 9
	}
	return 0
}

// Bits returns the assignment size in bits.
func (r Registry) Bits() int {
	return r.KeyLength() * 4
}

// Valid reports whether r is one of the five known registries.
func (r Registry) Valid() bool {
	return r >= RegistryMAL && r <= RegistryIAB
}

// MarshalText encodes the registry as its IEEE code.
func (r Registry) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRegistry, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes an IEEE registry code.
func (r *Registry) UnmarshalText(text []byte) error {
	parsed, err := ParseRegistry(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Record is a single registry assignment. The zero value is not a valid record.
type Record struct {
	registry     Registry
	key          string
	organization string
}

// NewRecord builds a record. key must already be canonical uppercase hex.
func NewRecord(registry Registry, key, organization string) Record {
	return Record{registry: registry, key: key, organization: organization}
}

// Registry returns the registry that assigned the key.
func (r Record) Registry() Registry { return r.registry }

// Key returns the assignment key as uppercase hex without separators.
func (r Record) Key() string { return r.key }

// Organization returns the registrant name.
func (r Record) Organization() string { return r.organization }

// IsZero reports whether r is the zero Record.
func (r Record) IsZero() bool { return r.key == "" }

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s", r.registry, r.key, r.organization)
}
