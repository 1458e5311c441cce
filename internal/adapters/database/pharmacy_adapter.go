package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pharmafind/backend/pkg/errors"
)

var pharmacyColumns = []interface{}{
	"p.id", "p.name", "p.phone", "p.emergency_phone", "p.license_number",
	"p.is_24_7", "p.working_days", "p.is_verified", "p.verified_at",
	"p.created_at", "p.updated_at",
	"a.street", "a.district", "a.city", "a.country", "a.latitude", "a.longitude",
}

// PharmacyAdapter implements PharmacyRepository
type PharmacyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPharmacyAdapter creates a new pharmacy adapter
func NewPharmacyAdapter(client *postgres.Client) repositories.PharmacyRepository {
	return &PharmacyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *PharmacyAdapter) baseQuery() *goqu.SelectDataset {
	return a.db.Select(pharmacyColumns...).
		From(goqu.T("pharmacies").As("p")).
		Join(goqu.T("addresses").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("p.address_id")}))
}

// GetByID retrieves a pharmacy with its address and schedule
func (a *PharmacyAdapter) GetByID(ctx context.Context, id string) (*entities.Pharmacy, error) {
	query, args, err := a.baseQuery().
		Where(goqu.Ex{"p.id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pharmacy, err := scanPharmacy(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pharmacy with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get pharmacy", err)
	}

	return pharmacy, nil
}

// ListVerified returns all verified pharmacies with address and schedule
func (a *PharmacyAdapter) ListVerified(ctx context.Context) ([]*entities.Pharmacy, error) {
	query, args, err := a.baseQuery().
		Where(goqu.I("p.is_verified").IsTrue()).
		Order(goqu.I("p.name").Asc(), goqu.I("p.id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list verified pharmacies", err)
	}
	defer rows.Close()

	pharmacies := []*entities.Pharmacy{}
	for rows.Next() {
		pharmacy, err := scanPharmacy(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan pharmacy", err)
		}
		pharmacies = append(pharmacies, pharmacy)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating pharmacies", err)
	}

	return pharmacies, nil
}

func scanPharmacy(row rowScanner) (*entities.Pharmacy, error) {
	pharmacy := &entities.Pharmacy{}
	var phone, emergencyPhone, licenseNumber sql.NullString
	var verifiedAt sql.NullTime
	var workingDays pq.Int64Array

	err := row.Scan(
		&pharmacy.ID,
		&pharmacy.Name,
		&phone,
		&emergencyPhone,
		&licenseNumber,
		&pharmacy.Schedule.Is24x7,
		&workingDays,
		&pharmacy.IsVerified,
		&verifiedAt,
		&pharmacy.CreatedAt,
		&pharmacy.UpdatedAt,
		&pharmacy.Address.Street,
		&pharmacy.Address.District,
		&pharmacy.Address.City,
		&pharmacy.Address.Country,
		&pharmacy.Location.Latitude,
		&pharmacy.Location.Longitude,
	)
	if err != nil {
		return nil, err
	}

	pharmacy.Phone = phone.String
	pharmacy.EmergencyPhone = emergencyPhone.String
	pharmacy.LicenseNumber = licenseNumber.String
	if verifiedAt.Valid {
		pharmacy.VerifiedAt = &verifiedAt.Time
	}
	pharmacy.Schedule.WorkingDays = make([]int, len(workingDays))
	for i, d := range workingDays {
		pharmacy.Schedule.WorkingDays[i] = int(d)
	}

	return pharmacy, nil
}
