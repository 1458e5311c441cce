package entities

import (
	"time"

	"github.com/pharmafind/backend/pkg/geo"
)

// Pharmacy represents a pharmacy eligible to appear in search results.
// Only verified pharmacies are ever returned by the search core.
type Pharmacy struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Address        Address   `json:"address" db:"-"`
	Location       geo.Point `json:"location" db:"-"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	EmergencyPhone string    `json:"emergency_phone,omitempty" db:"emergency_phone"`
	LicenseNumber  string    `json:"license_number,omitempty" db:"license_number"`
	Schedule       Schedule  `json:"schedule" db:"-"`
	IsVerified     bool      `json:"is_verified" db:"is_verified"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street   string `json:"street" db:"street"`
	District string `json:"district" db:"district"`
	City     string `json:"city" db:"city"`
	Country  string `json:"country" db:"country"`
}
