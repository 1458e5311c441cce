package entities

import "time"

// InventoryItem represents a (pharmacy, medication) stock pairing.
// The search core only reads inventory; mutations belong to the
// inventory management collaborator.
type InventoryItem struct {
	ID               string    `json:"id" db:"id"`
	PharmacyID       string    `json:"pharmacy_id" db:"pharmacy_id"`
	MedicationID     string    `json:"medication_id" db:"medication_id"`
	QuantityInStock  int       `json:"quantity_in_stock" db:"quantity_in_stock"`
	SellingPriceFcfa float64   `json:"selling_price_fcfa" db:"selling_price_fcfa"`
	IsAvailable      bool      `json:"is_available" db:"is_available"`
	LastRestocked    *time.Time `json:"last_restocked,omitempty" db:"last_restocked"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	// Relations, populated by the stock query
	Pharmacy   *Pharmacy   `json:"pharmacy,omitempty" db:"-"`
	Medication *Medication `json:"medication,omitempty" db:"-"`
}
