package domain

import "time"

// VendorReport summarizes which registrants own the addresses seen in a capture.
type VendorReport struct {
	Source      string        `json:"source"`
	GeneratedAt time.Time     `json:"generated_at"`
	Frames      int           `json:"frames"`
	Addresses   int           `json:"addresses"`
	Randomized  int           `json:"randomized"`
	Unresolved  int           `json:"unresolved"`
	Vendors     []VendorCount `json:"vendors"`
}

// VendorCount is one row of a VendorReport.
type VendorCount struct {
	Organization string   `json:"organization"`
	Registry     Registry `json:"registry"`
	Key          string   `json:"key"`
	Addresses    int      `json:"addresses"`
	Frames       int      `json:"frames"`
}
