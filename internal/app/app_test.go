package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/config"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

const header = "Registry,Assignment,Organization Name\n"

func writeRegistries(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"oui.csv":   header + "MA-L,AABBCC,Example Corp\nMA-L,001122,\"Other, Inc.\"\n",
		"mam.csv":   header + "MA-M,AABBCC1,Example Sub\n",
		"oui36.csv": header,
		"cid.csv":   header,
		"iab.csv":   header + "IAB,AABBCC,Ignored Duplicate\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{Addr: "127.0.0.1:0", CacheSize: 16}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Embedded(t *testing.T) {
	application, err := New(testConfig(t), quietLogger())
	require.NoError(t, err)

	assert.Same(t, oui.Default(), application.Resolver)

	rec, err := application.VendorRepo.LookupRecord(context.Background(), "00:00:00:00:00:00")
	require.NoError(t, err)
	assert.Equal(t, "XEROX CORPORATION", rec.Organization())
}

func TestNew_DataDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = writeRegistries(t)

	application, err := New(cfg, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 3, application.Resolver.Len())

	rec, err := application.VendorRepo.LookupRecord(context.Background(), "AA:BB:CC:10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Example Sub", rec.Organization())

	stats, err := application.Stats.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestNew_DataDirMissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = t.TempDir()

	_, err := New(cfg, quietLogger())
	assert.Error(t, err)
}

func TestNew_SeedsDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = writeRegistries(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "oui.db")

	application, err := New(cfg, quietLogger())
	require.NoError(t, err)

	stats, err := application.Stats.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.ByRegistry["MA-L"])

	rec, err := application.VendorRepo.LookupRecord(context.Background(), "001122334455")
	require.NoError(t, err)
	assert.Equal(t, "Other, Inc.", rec.Organization())

	_, err = application.VendorRepo.LookupRecord(context.Background(), "FFFFFFFFFFFF")
	assert.ErrorIs(t, err, oui.ErrVendorNotFound)

	require.NoError(t, application.cleanup())
}

func TestNew_OverwritesStaleDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "oui.db")

	stale, err := oui.NewOUIDatabase(dbPath, 16, nil)
	require.NoError(t, err)
	require.NoError(t, stale.ImportRecords(ctx, []domain.Record{
		domain.NewRecord(domain.RegistryMAL, "000000", "Stale Owner"),
		domain.NewRecord(domain.RegistryMAL, "FEDCBA", "Withdrawn Owner"),
	}))
	require.NoError(t, stale.Close())

	cfg := testConfig(t)
	cfg.DBPath = dbPath

	application, err := New(cfg, quietLogger())
	require.NoError(t, err)
	defer application.cleanup()

	rec, err := application.VendorRepo.LookupRecord(ctx, "000000000000")
	require.NoError(t, err)
	assert.Equal(t, "XEROX CORPORATION", rec.Organization())

	_, err = application.VendorRepo.LookupRecord(ctx, "FEDCBA000000")
	assert.ErrorIs(t, err, oui.ErrVendorNotFound)

	stats, err := application.Stats.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, application.Resolver.Len(), stats.TotalEntries)
}

func TestRun_StopsOnCancel(t *testing.T) {
	application, err := New(testConfig(t), quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, application.Run(ctx))
}
