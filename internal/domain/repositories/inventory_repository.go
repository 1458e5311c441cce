package repositories

import (
	"context"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// StockQuery narrows the candidate stock rows fetched for a search.
// The predicates quantity > 0, is_available and pharmacy verification
// are always applied by the implementation and are not expressed here.
type StockQuery struct {
	MedicationID string
}

// InventoryRepository is the storage contract for stock records. The
// search core only reads; inventory mutations belong elsewhere.
type InventoryRepository interface {
	// FindAvailable returns in-stock, available items at verified
	// pharmacies for the given query, with pharmacy (address, schedule)
	// and medication relations populated.
	FindAvailable(ctx context.Context, q StockQuery) ([]*entities.InventoryItem, error)
}
