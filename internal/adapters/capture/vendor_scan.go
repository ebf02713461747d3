// Package capture resolves the registrants of hardware addresses found in
// packet captures.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
	"github.com/lcalzada-xor/macoui/internal/core/ports"
)

type addressStats struct {
	mac    oui.MACAddress
	frames int
}

// VendorScanner reads pcap streams and tallies transmitters by registrant.
type VendorScanner struct {
	Lookup ports.VendorLookup
}

// NewVendorScanner creates a scanner resolving through lookup.
func NewVendorScanner(lookup ports.VendorLookup) *VendorScanner {
	return &VendorScanner{Lookup: lookup}
}

// Scan reads a classic pcap stream. Ethernet and 802.11 link types are
// supported; for 802.11 the transmitter address (Address2) is used.
func (s *VendorScanner) Scan(ctx context.Context, name string, r io.Reader) (*domain.VendorReport, error) {
	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open capture %s: %w", name, err)
	}

	var first gopacket.LayerType
	switch reader.LinkType() {
	case layers.LinkTypeEthernet:
		first = layers.LayerTypeEthernet
	case layers.LinkTypeIEEE802_11:
		first = layers.LayerTypeDot11
	case layers.LinkTypeIEEE80211Radio:
		first = layers.LayerTypeRadioTap
	default:
		return nil, fmt.Errorf("capture %s: unsupported link type %v", name, reader.LinkType())
	}

	report := &domain.VendorReport{Source: name, GeneratedAt: time.Now()}
	seen := make(map[string]*addressStats)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, _, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read capture %s: %w", name, err)
		}
		report.Frames++

		packet := gopacket.NewPacket(data, first, gopacket.NoCopy)
		hw := transmitter(packet)
		if len(hw) != 6 {
			continue
		}

		mac := oui.NewMACAddress(hw)
		key := mac.Canonical()
		st, ok := seen[key]
		if !ok {
			st = &addressStats{mac: mac}
			seen[key] = st
		}
		st.frames++
	}

	if err := s.tally(ctx, report, seen); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return report, nil
}

func transmitter(packet gopacket.Packet) net.HardwareAddr {
	if l := packet.Layer(layers.LayerTypeEthernet); l != nil {
		if eth, ok := l.(*layers.Ethernet); ok {
			return eth.SrcMAC
		}
	}
	if l := packet.Layer(layers.LayerTypeDot11); l != nil {
		if dot11, ok := l.(*layers.Dot11); ok {
			return dot11.Address2
		}
	}
	return nil
}

// tally resolves every distinct address. Company IDs carry the locally
// administered bit, so an address only counts as randomized when it is
// both locally administered and unregistered.
func (s *VendorScanner) tally(ctx context.Context, report *domain.VendorReport, seen map[string]*addressStats) error {
	byKey := make(map[string]*domain.VendorCount)
	report.Addresses = len(seen)

	for canonical, st := range seen {
		rec, err := s.Lookup.LookupRecord(ctx, canonical)
		if errors.Is(err, oui.ErrVendorNotFound) {
			if st.mac.IsRandomized() {
				report.Randomized++
			} else {
				report.Unresolved++
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("lookup %s: %w", st.mac, err)
		}
		vc, ok := byKey[rec.Key()]
		if !ok {
			vc = &domain.VendorCount{
				Organization: rec.Organization(),
				Registry:     rec.Registry(),
				Key:          rec.Key(),
			}
			byKey[rec.Key()] = vc
		}
		vc.Addresses++
		vc.Frames += st.frames
	}

	report.Vendors = make([]domain.VendorCount, 0, len(byKey))
	for _, vc := range byKey {
		report.Vendors = append(report.Vendors, *vc)
	}
	sort.Slice(report.Vendors, func(i, j int) bool {
		a, b := report.Vendors[i], report.Vendors[j]
		if a.Frames != b.Frames {
			return a.Frames > b.Frames
		}
		return a.Key < b.Key
	})
	return nil
}
