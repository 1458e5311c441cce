package entities

import (
	"time"

	"github.com/google/uuid"
)

// StockEventType represents the type of stock change
type StockEventType string

const (
	StockEventTypeRestock          StockEventType = "restock"
	StockEventTypePriceChange      StockEventType = "price_change"
	StockEventTypeAvailabilityFlip StockEventType = "availability_flip"
	StockEventTypeDepletion        StockEventType = "depletion"
)

// StockEvent represents an inventory mutation broadcast by the stock
// management collaborator. The search core consumes these to invalidate
// cached results for the affected medication.
type StockEvent struct {
	ID           string         `json:"id"`
	PharmacyID   string         `json:"pharmacy_id"`
	MedicationID string         `json:"medication_id"`
	EventType    StockEventType `json:"event_type"`
	Quantity     int            `json:"quantity"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewStockEvent creates a new stock event
func NewStockEvent(pharmacyID, medicationID string, eventType StockEventType, quantity int) *StockEvent {
	return &StockEvent{
		ID:           uuid.New().String(),
		PharmacyID:   pharmacyID,
		MedicationID: medicationID,
		EventType:    eventType,
		Quantity:     quantity,
		Timestamp:    time.Now(),
	}
}
