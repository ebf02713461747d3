package ports

import (
	"context"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

// VendorLookup resolves a hardware address, or a prefix of one, to the
// registry record of the organization that owns it.
type VendorLookup interface {
	// LookupRecord returns the most specific matching record.
	// Implementations report a miss with a not-found sentinel error.
	LookupRecord(ctx context.Context, address string) (domain.Record, error)
}

// VendorReporter renders a vendor summary into a document.
type VendorReporter interface {
	Export(report *domain.VendorReport) ([]byte, error)
}
