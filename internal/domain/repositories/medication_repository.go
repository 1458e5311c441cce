package repositories

import (
	"context"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// MedicationRepository is the storage contract for the medication catalog.
type MedicationRepository interface {
	// GetByID retrieves a single medication
	GetByID(ctx context.Context, id string) (*entities.Medication, error)

	// ListCatalog returns the whole active catalog, used as the candidate
	// pool for fuzzy name matching. Catalogs are small (thousands of rows).
	ListCatalog(ctx context.Context) ([]*entities.Medication, error)
}
