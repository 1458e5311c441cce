package entities

import "time"

// Medication represents a medication in the catalog
type Medication struct {
	ID                   string    `json:"id" db:"id"`
	CommercialName       string    `json:"commercial_name" db:"commercial_name"`
	DCIName              string    `json:"dci_name,omitempty" db:"dci_name"`
	DosageStrength       string    `json:"dosage_strength" db:"dosage_strength"`
	DosageUnit           string    `json:"dosage_unit" db:"dosage_unit"`
	RequiresPrescription bool      `json:"requires_prescription" db:"requires_prescription"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// MedicationSuggestion is an autocomplete candidate returned to patients
type MedicationSuggestion struct {
	ID             string `json:"id"`
	CommercialName string `json:"commercial_name"`
	DCIName        string `json:"dci_name,omitempty"`
	DosageStrength string `json:"dosage_strength"`
	DosageUnit     string `json:"dosage_unit"`
}
