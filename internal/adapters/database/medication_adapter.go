package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pharmafind/backend/pkg/errors"
)

var medicationColumns = []interface{}{
	"id", "commercial_name", "dci_name", "dosage_strength", "dosage_unit",
	"requires_prescription", "created_at", "updated_at",
}

// MedicationAdapter implements MedicationRepository
type MedicationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMedicationAdapter creates a new medication adapter
func NewMedicationAdapter(client *postgres.Client) repositories.MedicationRepository {
	return &MedicationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a medication by ID
func (a *MedicationAdapter) GetByID(ctx context.Context, id string) (*entities.Medication, error) {
	query, args, err := a.db.Select(medicationColumns...).
		From("medications").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	med, err := scanMedication(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("medication with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get medication", err)
	}

	return med, nil
}

// ListCatalog returns all medications, ordered by commercial name for
// deterministic downstream matching.
func (a *MedicationAdapter) ListCatalog(ctx context.Context) ([]*entities.Medication, error) {
	query, args, err := a.db.Select(medicationColumns...).
		From("medications").
		Order(goqu.I("commercial_name").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list medications", err)
	}
	defer rows.Close()

	medications := []*entities.Medication{}
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan medication", err)
		}
		medications = append(medications, med)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating medications", err)
	}

	return medications, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMedication(row rowScanner) (*entities.Medication, error) {
	med := &entities.Medication{}
	var dciName sql.NullString

	err := row.Scan(
		&med.ID,
		&med.CommercialName,
		&dciName,
		&med.DosageStrength,
		&med.DosageUnit,
		&med.RequiresPrescription,
		&med.CreatedAt,
		&med.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	med.DCIName = dciName.String
	return med, nil
}
