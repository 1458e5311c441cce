package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pharmafind/backend/pkg/errors"
)

// StockAdapter implements InventoryRepository
type StockAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStockAdapter creates a new stock adapter
func NewStockAdapter(client *postgres.Client) repositories.InventoryRepository {
	return &StockAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FindAvailable returns in-stock, available items at verified pharmacies.
// The verification, quantity and availability predicates are always
// applied; unverified-pharmacy stock never leaves this adapter.
func (a *StockAdapter) FindAvailable(ctx context.Context, q repositories.StockQuery) ([]*entities.InventoryItem, error) {
	ds := a.db.Select(
		"i.id", "i.pharmacy_id", "i.medication_id",
		"i.quantity_in_stock", "i.selling_price_fcfa", "i.is_available",
		"i.last_restocked", "i.updated_at",
		"m.commercial_name", "m.dci_name", "m.dosage_strength", "m.dosage_unit",
		"p.name", "p.phone", "p.is_24_7", "p.working_days", "p.is_verified",
		"a.street", "a.district", "a.city", "a.country", "a.latitude", "a.longitude",
	).
		From(goqu.T("inventory_items").As("i")).
		Join(goqu.T("medications").As("m"), goqu.On(goqu.Ex{"m.id": goqu.I("i.medication_id")})).
		Join(goqu.T("pharmacies").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("i.pharmacy_id")})).
		Join(goqu.T("addresses").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("p.address_id")})).
		Where(
			goqu.I("i.quantity_in_stock").Gt(0),
			goqu.I("i.is_available").IsTrue(),
			goqu.I("p.is_verified").IsTrue(),
		)

	if q.MedicationID != "" {
		ds = ds.Where(goqu.Ex{"i.medication_id": q.MedicationID})
	}

	// Deterministic row order so downstream distance ties break stably.
	ds = ds.Order(goqu.I("i.id").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build stock query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to query stock", err)
	}
	defer rows.Close()

	items := []*entities.InventoryItem{}
	for rows.Next() {
		item, err := scanStockRow(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan stock row", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating stock rows", err)
	}

	return items, nil
}

func scanStockRow(row rowScanner) (*entities.InventoryItem, error) {
	item := &entities.InventoryItem{
		Pharmacy:   &entities.Pharmacy{},
		Medication: &entities.Medication{},
	}
	var dciName, phone sql.NullString
	var lastRestocked sql.NullTime
	var workingDays pq.Int64Array

	err := row.Scan(
		&item.ID,
		&item.PharmacyID,
		&item.MedicationID,
		&item.QuantityInStock,
		&item.SellingPriceFcfa,
		&item.IsAvailable,
		&lastRestocked,
		&item.UpdatedAt,
		&item.Medication.CommercialName,
		&dciName,
		&item.Medication.DosageStrength,
		&item.Medication.DosageUnit,
		&item.Pharmacy.Name,
		&phone,
		&item.Pharmacy.Schedule.Is24x7,
		&workingDays,
		&item.Pharmacy.IsVerified,
		&item.Pharmacy.Address.Street,
		&item.Pharmacy.Address.District,
		&item.Pharmacy.Address.City,
		&item.Pharmacy.Address.Country,
		&item.Pharmacy.Location.Latitude,
		&item.Pharmacy.Location.Longitude,
	)
	if err != nil {
		return nil, err
	}

	item.Pharmacy.ID = item.PharmacyID
	item.Medication.ID = item.MedicationID
	item.Medication.DCIName = dciName.String
	item.Pharmacy.Phone = phone.String
	if lastRestocked.Valid {
		item.LastRestocked = &lastRestocked.Time
	}
	item.Pharmacy.Schedule.WorkingDays = make([]int, len(workingDays))
	for i, d := range workingDays {
		item.Pharmacy.Schedule.WorkingDays[i] = int(d)
	}

	return item, nil
}
