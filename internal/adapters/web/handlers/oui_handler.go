package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/core/ports"
	"github.com/lcalzada-xor/macoui/internal/telemetry"
)

// MaxBatchSize bounds the number of addresses accepted by HandleBatch.
const MaxBatchSize = 1024

// LookupResult is the JSON form of a single lookup.
type LookupResult struct {
	Address      string `json:"address"`
	Found        bool   `json:"found"`
	Registry     string `json:"registry,omitempty"`
	Assignment   string `json:"assignment,omitempty"`
	Organization string `json:"organization,omitempty"`
	Randomized   *bool  `json:"randomized,omitempty"`
	Multicast    *bool  `json:"multicast,omitempty"`
}

// OUIHandler serves registry lookups
type OUIHandler struct {
	Lookup ports.VendorLookup
	Stats  oui.VendorStats
}

// NewOUIHandler creates a new OUIHandler. stats may be nil.
func NewOUIHandler(lookup ports.VendorLookup, stats oui.VendorStats) *OUIHandler {
	return &OUIHandler{
		Lookup: lookup,
		Stats:  stats,
	}
}

// HandleLookup resolves the {address} path variable
func (h *OUIHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	res, err := h.resolve(r, address)
	if err != nil {
		slog.ErrorContext(r.Context(), "lookup failed", "address", address, "error", err)
		http.Error(w, "Lookup failed", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !res.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, res)
}

// HandleBatch resolves a JSON array of addresses
func (h *OUIHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var addresses []string
	if err := json.NewDecoder(r.Body).Decode(&addresses); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(addresses) > MaxBatchSize {
		http.Error(w, "Too many addresses", http.StatusRequestEntityTooLarge)
		return
	}

	results := make([]LookupResult, 0, len(addresses))
	for _, address := range addresses {
		res, err := h.resolve(r, address)
		if err != nil {
			slog.ErrorContext(r.Context(), "lookup failed", "address", address, "error", err)
			http.Error(w, "Lookup failed", http.StatusInternalServerError)
			return
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, results)
}

// HandleStats returns table statistics
func (h *OUIHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		http.Error(w, "Statistics unavailable", http.StatusNotImplemented)
		return
	}

	stats, err := h.Stats.GetStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to get stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleHealth reports liveness
func (h *OUIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OUIHandler) resolve(r *http.Request, address string) (LookupResult, error) {
	res := LookupResult{Address: address}
	if mac, err := oui.ParseMAC(address); err == nil {
		randomized, multicast := mac.IsRandomized(), mac.IsMulticast()
		res.Randomized = &randomized
		res.Multicast = &multicast
	}

	if len(oui.Canonicalize(address)) < 6 {
		telemetry.ObserveLookup("", telemetry.ResultInvalid)
		return res, nil
	}

	rec, err := h.Lookup.LookupRecord(r.Context(), address)
	switch {
	case errors.Is(err, oui.ErrVendorNotFound):
		telemetry.ObserveLookup("", telemetry.ResultMiss)
		return res, nil
	case err != nil:
		telemetry.ObserveLookup("", telemetry.ResultError)
		return res, err
	}

	telemetry.ObserveLookup(rec.Registry().String(), telemetry.ResultHit)
	res.Found = true
	res.Registry = rec.Registry().String()
	res.Assignment = rec.Key()
	res.Organization = rec.Organization()
	return res, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
