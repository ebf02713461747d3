package oui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

// OUIDatabase is a SQLite export of a compiled registry table.
// It implements VendorRepository, RecordWriter, and VendorStats interfaces
type OUIDatabase struct {
	db       *sql.DB
	cache    *OUICache
	mu       sync.RWMutex
	dbPath   string
	fallback VendorRepository
	closed   bool

	// Prepared statements for better performance
	lookupStmt *sql.Stmt
}

// NewOUIDatabase opens (or creates) the SQLite export at dbPath
func NewOUIDatabase(dbPath string, cacheSize int, fallback VendorRepository) (*OUIDatabase, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &DatabaseError{Op: "open", Err: err}
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &DatabaseError{Op: "ping", Err: err}
	}

	o := &OUIDatabase{
		db:       db,
		cache:    NewOUICache(cacheSize),
		dbPath:   dbPath,
		fallback: fallback,
	}

	if err := o.initializeSchema(); err != nil {
		db.Close()
		return nil, &DatabaseError{Op: "initialize_schema", Err: err}
	}

	// Candidate prefixes are bound longest first; the longest stored key wins.
	stmt, err := db.Prepare(`
	SELECT prefix, registry, organization FROM oui_registry
	WHERE prefix IN (?, ?, ?)
	ORDER BY length(prefix) DESC
	LIMIT 1`)
	if err != nil {
		db.Close()
		return nil, &DatabaseError{Op: "prepare_statement", Err: err}
	}
	o.lookupStmt = stmt

	return o, nil
}

// initializeSchema creates the registry table if it doesn't exist
func (o *OUIDatabase) initializeSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS oui_registry (
		prefix TEXT PRIMARY KEY,
		registry TEXT NOT NULL,
		organization TEXT NOT NULL,
		last_updated INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_registry ON oui_registry(registry);
	CREATE INDEX IF NOT EXISTS idx_organization ON oui_registry(organization);
	`

	_, err := o.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LookupRecord implements VendorRepository with the same 9/7/6 digit
// precedence as Resolver.Lookup
func (o *OUIDatabase) LookupRecord(ctx context.Context, address string) (domain.Record, error) {
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		return domain.Record{}, ErrRepositoryClosed
	}
	o.mu.RUnlock()

	canonical := Canonicalize(address)
	cacheKey := canonical
	if len(cacheKey) > domain.LookupKeyLengths[0] {
		cacheKey = cacheKey[:domain.LookupKeyLengths[0]]
	}

	if rec, ok := o.cache.Get(cacheKey); ok {
		return rec, nil
	}

	var args [len(domain.LookupKeyLengths)]any
	for i, n := range domain.LookupKeyLengths {
		args[i] = ""
		if len(canonical) >= n {
			args[i] = canonical[:n]
		}
	}

	var key, registry, organization string
	err := o.lookupStmt.QueryRowContext(ctx, args[:]...).Scan(&key, &registry, &organization)

	if errors.Is(err, sql.ErrNoRows) {
		if o.fallback != nil {
			if rec, ferr := o.fallback.LookupRecord(ctx, address); ferr == nil {
				o.cache.Set(cacheKey, rec)
				return rec, nil
			}
		}
		return domain.Record{}, ErrVendorNotFound
	}

	if err != nil {
		if o.fallback != nil {
			if rec, ferr := o.fallback.LookupRecord(ctx, address); ferr == nil {
				return rec, nil
			}
		}
		return domain.Record{}, &DatabaseError{Op: "lookup", Err: err}
	}

	reg, err := domain.ParseRegistry(registry)
	if err != nil {
		return domain.Record{}, &DatabaseError{Op: "decode_registry", Err: err}
	}

	rec := domain.NewRecord(reg, key, organization)
	o.cache.Set(cacheKey, rec)
	return rec, nil
}

// ImportRecords implements RecordWriter. The stored table is replaced by
// records in a single transaction so readers never observe a partial export.
func (o *OUIDatabase) ImportRecords(ctx context.Context, records []domain.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrRepositoryClosed
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return &DatabaseError{Op: "begin_transaction", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM oui_registry"); err != nil {
		return &DatabaseError{Op: "truncate", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oui_registry (prefix, registry, organization, last_updated)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return &DatabaseError{Op: "prepare_import", Err: err}
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Key(), rec.Registry().String(), rec.Organization(), now); err != nil {
			return &DatabaseError{Op: "import_record", Err: fmt.Errorf("%s: %w", rec.Key(), err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &DatabaseError{Op: "commit_transaction", Err: err}
	}

	o.cache.Clear()
	return nil
}

// GetStats implements VendorStats interface
func (o *OUIDatabase) GetStats(ctx context.Context) (RepositoryStats, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return RepositoryStats{}, ErrRepositoryClosed
	}

	var count int
	var lastUpdateUnix int64

	err := o.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(MAX(last_updated), 0) FROM oui_registry",
	).Scan(&count, &lastUpdateUnix)
	if err != nil {
		return RepositoryStats{}, &DatabaseError{Op: "get_stats", Err: err}
	}

	rows, err := o.db.QueryContext(ctx, "SELECT registry, COUNT(*) FROM oui_registry GROUP BY registry")
	if err != nil {
		return RepositoryStats{}, &DatabaseError{Op: "get_stats", Err: err}
	}
	defer rows.Close()

	byRegistry := make(map[string]int)
	for rows.Next() {
		var reg string
		var n int
		if err := rows.Scan(&reg, &n); err != nil {
			return RepositoryStats{}, &DatabaseError{Op: "get_stats", Err: err}
		}
		byRegistry[reg] = n
	}
	if err := rows.Err(); err != nil {
		return RepositoryStats{}, &DatabaseError{Op: "get_stats", Err: err}
	}

	lastUpdate := ""
	if lastUpdateUnix > 0 {
		lastUpdate = time.Unix(lastUpdateUnix, 0).UTC().Format("2006-01-02")
	}
	cacheStats := o.cache.Stats()

	return RepositoryStats{
		TotalEntries: count,
		ByRegistry:   byRegistry,
		CacheHits:    cacheStats.Hits,
		CacheMisses:  cacheStats.Misses,
		LastUpdated:  lastUpdate,
	}, nil
}

// Close implements VendorRepository interface
func (o *OUIDatabase) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}

	o.closed = true

	if o.lookupStmt != nil {
		o.lookupStmt.Close()
	}

	if o.cache != nil {
		o.cache.Clear()
	}

	if o.db != nil {
		return o.db.Close()
	}

	return nil
}
