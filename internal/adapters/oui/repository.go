package oui

import (
	"context"
	"errors"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
	"github.com/lcalzada-xor/macoui/internal/core/ports"
)

// VendorRepository resolves addresses to registry records
type VendorRepository interface {
	ports.VendorLookup

	// Close releases any resources held by the repository
	Close() error
}

// RecordWriter defines the interface for persisting compiled records
type RecordWriter interface {
	// ImportRecords replaces the stored records with the given set
	ImportRecords(ctx context.Context, records []domain.Record) error
}

// VendorStats provides statistics about the vendor repository
type VendorStats interface {
	// GetStats returns statistics about the repository
	GetStats(ctx context.Context) (RepositoryStats, error)
}

// RepositoryStats contains statistics about a vendor repository
type RepositoryStats struct {
	TotalEntries int            `json:"total_entries"`
	ByRegistry   map[string]int `json:"by_registry"`
	Duplicates   int            `json:"duplicates_discarded"`
	CacheHits    int64          `json:"cache_hits"`
	CacheMisses  int64          `json:"cache_misses"`
	LastUpdated  string         `json:"last_updated,omitempty"`
}

// CompositeVendorRepository implements a chain-of-responsibility pattern
// for record lookups, trying multiple repositories in order
type CompositeVendorRepository struct {
	repositories []VendorRepository
}

// NewCompositeVendorRepository creates a new composite repository
// that tries each repository in order until one succeeds
func NewCompositeVendorRepository(repos ...VendorRepository) *CompositeVendorRepository {
	return &CompositeVendorRepository{
		repositories: repos,
	}
}

// LookupRecord tries each repository in order until one returns a record
func (c *CompositeVendorRepository) LookupRecord(ctx context.Context, address string) (domain.Record, error) {
	var lastErr error
	for _, repo := range c.repositories {
		rec, err := repo.LookupRecord(ctx, address)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrVendorNotFound) {
			lastErr = err
		}
	}

	if lastErr != nil {
		return domain.Record{}, lastErr
	}
	return domain.Record{}, ErrVendorNotFound
}

// GetStats reports the stats of the first repository that provides them
func (c *CompositeVendorRepository) GetStats(ctx context.Context) (RepositoryStats, error) {
	for _, repo := range c.repositories {
		if s, ok := repo.(VendorStats); ok {
			return s.GetStats(ctx)
		}
	}
	return RepositoryStats{}, nil
}

// Close closes all repositories
func (c *CompositeVendorRepository) Close() error {
	var firstErr error
	for _, repo := range c.repositories {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
