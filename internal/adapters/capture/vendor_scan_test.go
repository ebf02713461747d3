package capture

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

func writeEthernetCapture(t *testing.T, sources ...string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))

	dst, _ := net.ParseMAC("ff:ff:ff:ff:ff:ff")
	for _, s := range sources {
		src, err := net.ParseMAC(s)
		require.NoError(t, err)

		eth := &layers.Ethernet{SrcMAC: src, DstMAC: dst, EthernetType: layers.EthernetTypeLLC}
		sb := gopacket.NewSerializeBuffer()
		require.NoError(t, gopacket.SerializeLayers(sb, gopacket.SerializeOptions{},
			eth, gopacket.Payload([]byte{0xaa, 0xaa, 0x03})))

		data := sb.Bytes()
		ci := gopacket.CaptureInfo{Timestamp: time.Now(), CaptureLength: len(data), Length: len(data)}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return &buf
}

func TestVendorScanner_Ethernet(t *testing.T) {
	capture := writeEthernetCapture(t,
		"00:00:00:00:00:01",
		"00:00:00:00:00:01",
		"00:00:00:00:00:02",
		"50:a6:d8:12:34:56",
		"8c:1f:64:af:a0:01",
		"02:11:22:33:44:55", // locally administered
		"ac:de:48:00:11:22", // not in the embedded table
	)

	scanner := NewVendorScanner(oui.Default())
	report, err := scanner.Scan(context.Background(), "test.pcap", capture)
	require.NoError(t, err)

	assert.Equal(t, "test.pcap", report.Source)
	assert.Equal(t, 7, report.Frames)
	assert.Equal(t, 6, report.Addresses)
	assert.Equal(t, 1, report.Randomized)
	assert.Equal(t, 1, report.Unresolved)
	require.Len(t, report.Vendors, 3)

	top := report.Vendors[0]
	assert.Equal(t, "XEROX CORPORATION", top.Organization)
	assert.Equal(t, 2, top.Addresses)
	assert.Equal(t, 3, top.Frames)

	var mas *domain.VendorCount
	for i := range report.Vendors {
		if report.Vendors[i].Registry == domain.RegistryMAS {
			mas = &report.Vendors[i]
		}
	}
	require.NotNil(t, mas, "36-bit assignment should be reported on its own")
	assert.Equal(t, "8C1F64AFA", mas.Key)
}

func TestVendorScanner_UnsupportedLinkType(t *testing.T) {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeRaw))

	_, err := NewVendorScanner(oui.Default()).Scan(context.Background(), "raw.pcap", &buf)
	assert.Error(t, err)
}

func TestVendorScanner_NotACapture(t *testing.T) {
	_, err := NewVendorScanner(oui.Default()).Scan(context.Background(), "junk", bytes.NewReader([]byte("not a pcap")))
	assert.Error(t, err)
}

func TestVendorScanner_Cancelled(t *testing.T) {
	capture := writeEthernetCapture(t, "00:00:00:00:00:01")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewVendorScanner(oui.Default()).Scan(ctx, "test.pcap", capture)
	assert.ErrorIs(t, err, context.Canceled)
}

// MockVendorLookup is a mock implementation of ports.VendorLookup
type MockVendorLookup struct {
	mock.Mock
}

func (m *MockVendorLookup) LookupRecord(ctx context.Context, address string) (domain.Record, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Record), args.Error(1)
}

func TestVendorScanner_CompanyIDIsNotRandomized(t *testing.T) {
	table, err := compiler.New().Compile(compiler.Source{
		Name:   "cid.csv",
		Reader: strings.NewReader("Registry,Assignment,Organization Name\nCID,EA2701,ACCE Technology Corp.\n"),
	})
	require.NoError(t, err)

	capture := writeEthernetCapture(t,
		"ea:27:01:00:00:01",
		"ea:27:01:00:00:01",
		"06:00:00:00:00:01", // locally administered, unregistered
	)

	report, err := NewVendorScanner(oui.NewResolver(table)).Scan(context.Background(), "cid.pcap", capture)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Addresses)
	assert.Equal(t, 1, report.Randomized)
	assert.Zero(t, report.Unresolved)
	require.Len(t, report.Vendors, 1)
	assert.Equal(t, domain.VendorCount{
		Organization: "ACCE Technology Corp.",
		Registry:     domain.RegistryCID,
		Key:          "EA2701",
		Addresses:    1,
		Frames:       2,
	}, report.Vendors[0])
}

func TestVendorScanner_EmbeddedCompanyID(t *testing.T) {
	capture := writeEthernetCapture(t, "ea:27:01:00:00:01")

	report, err := NewVendorScanner(oui.Default()).Scan(context.Background(), "cid.pcap", capture)
	require.NoError(t, err)

	assert.Zero(t, report.Randomized)
	require.Len(t, report.Vendors, 1)
	assert.Equal(t, "ACCE Technology Corp.", report.Vendors[0].Organization)
}

func TestVendorScanner_LookupFailure(t *testing.T) {
	lookup := new(MockVendorLookup)
	backend := &oui.DatabaseError{Op: "lookup", Err: errors.New("disk I/O error")}
	lookup.On("LookupRecord", mock.Anything, "001122334455").Return(domain.Record{}, backend)

	capture := writeEthernetCapture(t, "00:11:22:33:44:55")
	report, err := NewVendorScanner(lookup).Scan(context.Background(), "test.pcap", capture)

	require.Error(t, err)
	assert.Nil(t, report)
	var dbErr *oui.DatabaseError
	assert.ErrorAs(t, err, &dbErr)
	lookup.AssertExpectations(t)
}

func TestVendorScanner_MissesAreUnresolved(t *testing.T) {
	lookup := new(MockVendorLookup)
	lookup.On("LookupRecord", mock.Anything, "001122334455").Return(domain.Record{}, oui.ErrVendorNotFound)
	lookup.On("LookupRecord", mock.Anything, "021122334455").Return(domain.Record{}, oui.ErrVendorNotFound)

	capture := writeEthernetCapture(t, "00:11:22:33:44:55", "02:11:22:33:44:55")
	report, err := NewVendorScanner(lookup).Scan(context.Background(), "test.pcap", capture)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Unresolved)
	assert.Equal(t, 1, report.Randomized)
	assert.Empty(t, report.Vendors)
	lookup.AssertExpectations(t)
}
