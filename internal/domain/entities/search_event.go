package entities

import (
	"encoding/json"
	"time"
)

// SearchEvent records one stock search for analytics. Written only when
// a concrete medication was resolved; losing an event degrades analytics,
// never search correctness.
type SearchEvent struct {
	ID             string          `json:"id" db:"id"`
	MedicationID   string          `json:"medication_id" db:"medication_id"`
	Latitude       float64         `json:"latitude" db:"latitude"`
	Longitude      float64         `json:"longitude" db:"longitude"`
	RadiusKm       float64         `json:"radius_km" db:"radius_km"`
	FiltersApplied json.RawMessage `json:"filters_applied,omitempty" db:"filters_applied"`
	ResultsFound   int             `json:"results_found" db:"results_found"`
	SearchedAt     time.Time       `json:"searched_at" db:"searched_at"`
}
