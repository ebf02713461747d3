package oui

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResolver compiles a small table with overlapping grains:
// 8C1F64 (MA-L) contains 8C1F64AFA (MA-S); B84C87 (MA-L) contains B84C874 (MA-M).
func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	const header = "Registry,Assignment,Organization Name\n"
	c := compiler.New(compiler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	table, err := c.Compile(
		compiler.Source{Name: "oui.csv", Reader: strings.NewReader(header +
			"MA-L,000000,XEROX CORPORATION\n" +
			"MA-L,50A6D8,\"Apple, Inc.\"\n" +
			"MA-L,8C1F64,IEEE Registration Authority\n" +
			"MA-L,B84C87,IEEE Registration Authority\n")},
		compiler.Source{Name: "mam.csv", Reader: strings.NewReader(header +
			"MA-M,B84C874,Blum Novotest GmbH\n" +
			"MA-M,8C1F64A,MAM Under MAL\n")},
		compiler.Source{Name: "oui36.csv", Reader: strings.NewReader(header +
			"MA-S,8C1F64AFA,\"DATA ELECTRONIC DEVICES, INC\"\n")},
	)
	require.NoError(t, err)
	return NewResolver(table)
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50A6D8000000", "50A6D8000000"},
		{"50a6d8000000", "50A6D8000000"},
		{"50:a6:d8:00:00:00", "50A6D8000000"},
		{"50:A6:D8", "50A6D8"},
		{"", ""},
		{"50-A6-D8", "50-A6-D8"},
		{"zz:zz", "ZZZZ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonicalize(tt.in), "Canonicalize(%q)", tt.in)
	}
}

func TestResolver_LongestPrefixFirst(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		address  string
		wantKey  string
		wantReg  domain.Registry
		wantFind bool
	}{
		{"36-bit wins over 28 and 24", "8C:1F:64:AF:A0:00", "8C1F64AFA", domain.RegistryMAS, true},
		{"28-bit when 36-bit absent", "8C:1F:64:A0:00:00", "8C1F64A", domain.RegistryMAM, true},
		{"24-bit when finer grains absent", "8C:1F:64:00:00:00", "8C1F64", domain.RegistryMAL, true},
		{"28-bit registry", "B8:4C:87:40:00:00", "B84C874", domain.RegistryMAM, true},
		{"xerox", "00:00:00:00:00:00", "000000", domain.RegistryMAL, true},
		{"bare lowercase", "50a6d8000000", "50A6D8", domain.RegistryMAL, true},
		{"bare prefix", "50A6D8", "50A6D8", domain.RegistryMAL, true},
		{"seven digit prefix", "B84C874", "B84C874", domain.RegistryMAM, true},
		{"nine digit prefix", "8C1F64AFA", "8C1F64AFA", domain.RegistryMAS, true},
		{"eight digits falls back to 7", "B84C8740", "B84C874", domain.RegistryMAM, true},
		{"too short", "50A6D", "", 0, false},
		{"empty", "", "", 0, false},
		{"unknown", "FF:FF:FF:FF:FF:FF", "", 0, false},
		{"garbage", "not a mac address", "", 0, false},
		{"dash separated is not canonicalized", "50-A6-D8-00-00-00", "", 0, false},
		{"non ascii", "50A6Dééé", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := r.Lookup(tt.address)
			require.Equal(t, tt.wantFind, ok)
			if !ok {
				assert.True(t, rec.IsZero())
				return
			}
			assert.Equal(t, tt.wantKey, rec.Key())
			assert.Equal(t, tt.wantReg, rec.Registry())
		})
	}
}

func TestResolver_EncodingsAgree(t *testing.T) {
	r := newTestResolver(t)

	for _, rec := range r.Table().Records() {
		full := rec.Key() + strings.Repeat("0", 12-len(rec.Key()))

		var colon []string
		for i := 0; i < len(full); i += 2 {
			colon = append(colon, full[i:i+2])
		}
		upper := strings.Join(colon, ":")
		encodings := []string{full, strings.ToLower(full), upper, strings.ToLower(upper)}

		want, ok := r.Lookup(full)
		require.True(t, ok, full)
		for _, enc := range encodings {
			got, ok := r.Lookup(enc)
			require.True(t, ok, enc)
			assert.Equal(t, want, got, enc)
			assert.Equal(t, Canonicalize(full), Canonicalize(enc))
		}
	}
}

func TestResolver_ShortAddressesNeverMatch(t *testing.T) {
	r := newTestResolver(t)
	for _, addr := range []string{"0", "00", "000", "0000", "00000", "00:00:0", "8C1F6", "b8:4c"} {
		_, ok := r.Lookup(addr)
		assert.False(t, ok, addr)
	}
}

func TestResolver_ConcurrentReaders(t *testing.T) {
	r := newTestResolver(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				rec, ok := r.Lookup("8c:1f:64:af:a0:00")
				if !ok || rec.Registry() != domain.RegistryMAS {
					t.Errorf("concurrent lookup returned %v, %v", rec, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefault_EmbeddedScenarios(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantReg domain.Registry
		wantKey string
		wantOrg string
	}{
		{"xerox", "00:00:00:00:00:00", domain.RegistryMAL, "000000", "XEROX CORPORATION"},
		{"ignore case", "50:a6:d8:00:00:00", domain.RegistryMAL, "50A6D8", "Apple, Inc."},
		{"ignore colons", "50A6D8000000", domain.RegistryMAL, "50A6D8", "Apple, Inc."},
		{"bare prefix", "50A6D8", domain.RegistryMAL, "50A6D8", "Apple, Inc."},
		{"28-bit block", "B8:4C:87:40:00:00", domain.RegistryMAM, "B84C874", "Blum Novotest GmbH"},
		{"36-bit block", "8C:1F:64:AF:A0:00", domain.RegistryMAS, "8C1F64AFA", "DATA ELECTRONIC DEVICES, INC"},
		{"company id", "EA:27:01:00:00:00", domain.RegistryCID, "EA2701", "ACCE Technology Corp."},
		{"individual address block", "40:D8:55:0D:70:00", domain.RegistryIAB, "40D8550D7", "Avant Technologies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Lookup(tt.address)
			require.True(t, ok, tt.address)
			assert.Equal(t, tt.wantOrg, rec.Organization())
			assert.Equal(t, tt.wantReg, rec.Registry())
			assert.Equal(t, tt.wantKey, rec.Key())
		})
	}

	coarse, ok := Lookup("8C1F64")
	require.True(t, ok)
	assert.Equal(t, domain.RegistryMAL, coarse.Registry())
	assert.Equal(t, "IEEE Registration Authority", coarse.Organization())

	assert.Same(t, Default(), Default())
}
