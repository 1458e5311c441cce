package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pharmafind/backend/internal/infrastructure/clients/postgres"
	"github.com/pharmafind/backend/pkg/config"
)

// Seeds a development database with Yaoundé pharmacies and a small
// medication catalog so the search API has something to find.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	db := goqu.New("postgres", pgClient.DB())
	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				searches,
				inventory_items,
				pharmacies,
				addresses,
				medications
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()
	weekdays := []int64{1, 2, 3, 4, 5}
	allWeek := []int64{1, 2, 3, 4, 5, 6, 7}

	// 1. Medications
	type medication struct {
		id, commercial, dci, strength, unit string
		prescription                        bool
	}
	medications := []medication{
		{uuid.New().String(), "Doliprane", "Paracetamol", "500", "mg", false},
		{uuid.New().String(), "Efferalgan", "Paracetamol", "1000", "mg", false},
		{uuid.New().String(), "Amoxicilline Biogaran", "Amoxicilline", "500", "mg", true},
		{uuid.New().String(), "Spasfon", "Phloroglucinol", "80", "mg", false},
		{uuid.New().String(), "Coartem", "Artemether/Lumefantrine", "20/120", "mg", true},
	}
	for _, m := range medications {
		_, err := db.Insert("medications").Rows(goqu.Record{
			"id":                    m.id,
			"commercial_name":       m.commercial,
			"dci_name":              m.dci,
			"dosage_strength":       m.strength,
			"dosage_unit":           m.unit,
			"requires_prescription": m.prescription,
			"created_at":            now,
			"updated_at":            now,
		}).Executor().ExecContext(ctx)
		if err != nil {
			log.Printf("Failed to insert medication %s: %v", m.commercial, err)
		}
	}

	// 2. Pharmacies with addresses around Yaoundé
	type pharmacy struct {
		id, name, district string
		lat, lng           float64
		is24x7             bool
		workingDays        []int64
		verified           bool
	}
	pharmacies := []pharmacy{
		{uuid.New().String(), "Pharmacie Bastos", "Bastos", 3.8891, 11.5102, false, allWeek, true},
		{uuid.New().String(), "Pharmacie du Centre", "Centre Ville", 3.8667, 11.5167, true, allWeek, true},
		{uuid.New().String(), "Pharmacie de la Cité Verte", "Cité Verte", 3.8731, 11.4893, false, weekdays, true},
		{uuid.New().String(), "Pharmacie d'Emana", "Emana", 3.9245, 11.5214, false, append(weekdays, 6), true},
		{uuid.New().String(), "Pharmacie Mvog-Mbi", "Mvog-Mbi", 3.8522, 11.5248, false, weekdays, false},
	}
	for _, p := range pharmacies {
		addressID := uuid.New().String()
		_, err := db.Insert("addresses").Rows(goqu.Record{
			"id":        addressID,
			"street":    "Avenue Principale",
			"district":  p.district,
			"city":      "Yaoundé",
			"country":   "Cameroun",
			"latitude":  p.lat,
			"longitude": p.lng,
		}).Executor().ExecContext(ctx)
		if err != nil {
			log.Printf("Failed to insert address for %s: %v", p.name, err)
			continue
		}

		record := goqu.Record{
			"id":           p.id,
			"name":         p.name,
			"address_id":   addressID,
			"phone":        "+237 6 70 00 00 00",
			"is_24_7":      p.is24x7,
			"working_days": pq.Array(p.workingDays),
			"is_verified":  p.verified,
			"created_at":   now,
			"updated_at":   now,
		}
		if p.verified {
			record["verified_at"] = now
		}
		if _, err := db.Insert("pharmacies").Rows(record).Executor().ExecContext(ctx); err != nil {
			log.Printf("Failed to insert pharmacy %s: %v", p.name, err)
		}
	}

	// 3. Inventory: every verified pharmacy stocks a spread of the catalog
	prices := []float64{500, 1200, 2500, 1800, 3500}
	for pi, p := range pharmacies {
		for mi, m := range medications {
			// Leave gaps so some searches come back empty.
			if (pi+mi)%4 == 3 {
				continue
			}
			_, err := db.Insert("inventory_items").Rows(goqu.Record{
				"id":                 uuid.New().String(),
				"pharmacy_id":        p.id,
				"medication_id":      m.id,
				"quantity_in_stock":  10 + 5*pi,
				"selling_price_fcfa": prices[mi] + float64(100*pi),
				"is_available":       true,
				"last_restocked":     now,
				"updated_at":         now,
			}).Executor().ExecContext(ctx)
			if err != nil {
				log.Printf("Failed to insert stock %s / %s: %v", p.name, m.commercial, err)
			}
		}
	}

	log.Printf("Seeded %d medications and %d pharmacies", len(medications), len(pharmacies))
}
