package entities

import (
	"github.com/pharmafind/backend/pkg/geo"
)

// SearchFilters carries the parameters of a pharmacy stock search.
// Either MedicationID or Term must be present; MedicationID wins when
// both are given.
type SearchFilters struct {
	Term         string    `json:"term,omitempty"`
	MedicationID string    `json:"medication_id,omitempty"`
	Origin       geo.Point `json:"origin"`
	RadiusKm     float64   `json:"radius_km,omitempty"`
	IsOpen       *bool     `json:"is_open,omitempty"`
	MaxPrice     *float64  `json:"max_price,omitempty"`
}

// SearchResult is a stock record enriched with computed distance and
// open-now state, ordered ascending by distance.
type SearchResult struct {
	InventoryItem
	DistanceKm float64 `json:"distance_km"`
	IsOpenNow  bool    `json:"is_open_now"`
}

// NearbyPharmacy is a pharmacy enriched with distance, used for
// map-browsing without a medication filter.
type NearbyPharmacy struct {
	Pharmacy
	DistanceKm float64 `json:"distance_km"`
	IsOpenNow  bool    `json:"is_open_now"`
}
