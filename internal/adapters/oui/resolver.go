package oui

import (
	"context"
	"strings"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

// Canonicalize converts an address to uppercase hex without separators.
//
// Bare uppercase hex is returned untouched. Anything else is uppercased and
// stripped of colons; other characters are left in place and simply fail to
// match later.
func Canonicalize(address string) string {
	if isUpperHex(address) {
		return address
	}
	return strings.ReplaceAll(strings.ToUpper(address), ":", "")
}

func isUpperHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// Resolver finds the most specific registry record for an address.
// It only reads its table and is safe for concurrent use without locking.
type Resolver struct {
	table *compiler.Table
}

// NewResolver wraps a compiled table.
func NewResolver(table *compiler.Table) *Resolver {
	return &Resolver{table: table}
}

// Lookup returns the record whose key is the longest prefix of address,
// trying 9, 7 and then 6 hex digits. Addresses with fewer than six digits,
// unknown prefixes and malformed input all report false.
func (r *Resolver) Lookup(address string) (domain.Record, bool) {
	canonical := Canonicalize(address)
	for _, n := range domain.LookupKeyLengths {
		if len(canonical) < n {
			continue
		}
		if rec, ok := r.table.Get(canonical[:n]); ok {
			return rec, true
		}
	}
	return domain.Record{}, false
}

// Len returns the number of records in the underlying table.
func (r *Resolver) Len() int {
	return r.table.Len()
}

// Table exposes the compiled table, e.g. for exporting it.
func (r *Resolver) Table() *compiler.Table {
	return r.table
}

// LookupRecord implements VendorRepository.
func (r *Resolver) LookupRecord(_ context.Context, address string) (domain.Record, error) {
	rec, ok := r.Lookup(address)
	if !ok {
		return domain.Record{}, ErrVendorNotFound
	}
	return rec, nil
}

// GetStats implements VendorStats.
func (r *Resolver) GetStats(_ context.Context) (RepositoryStats, error) {
	s := r.table.Stats()
	byRegistry := make(map[string]int, len(s.ByRegistry))
	for reg, n := range s.ByRegistry {
		byRegistry[reg.String()] = n
	}
	return RepositoryStats{
		TotalEntries: s.Total,
		ByRegistry:   byRegistry,
		Duplicates:   s.Duplicates,
	}, nil
}

// Close is a no-op; the table lives for the whole process.
func (r *Resolver) Close() error {
	return nil
}
