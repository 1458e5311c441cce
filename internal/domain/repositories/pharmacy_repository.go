package repositories

import (
	"context"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// PharmacyRepository is the storage contract for pharmacies.
type PharmacyRepository interface {
	// GetByID retrieves a pharmacy with its address and schedule
	GetByID(ctx context.Context, id string) (*entities.Pharmacy, error)

	// ListVerified returns all verified pharmacies with address and
	// schedule loaded. Unverified pharmacies never reach the search core.
	ListVerified(ctx context.Context) ([]*entities.Pharmacy, error)
}
