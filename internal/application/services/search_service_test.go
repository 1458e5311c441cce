package services

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/providers"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/pkg/config"
	apperrors "github.com/pharmafind/backend/pkg/errors"
	"github.com/pharmafind/backend/pkg/geo"
)

// ---- fakes shared by the service tests ----

type memCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, providers.ErrCacheMiss
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

// deadCache fails every operation, simulating an unreachable backend.
type deadCache struct{}

func (deadCache) Get(context.Context, string) ([]byte, error)        { return nil, errors.New("cache down") }
func (deadCache) Set(context.Context, string, []byte, int) error     { return errors.New("cache down") }
func (deadCache) Delete(context.Context, string) error               { return errors.New("cache down") }
func (deadCache) DeletePattern(context.Context, string) error        { return errors.New("cache down") }

type fakeMedicationRepo struct {
	meds    []*entities.Medication
	listErr error
}

func (r *fakeMedicationRepo) GetByID(_ context.Context, id string) (*entities.Medication, error) {
	for _, m := range r.meds {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMedicationRepo) ListCatalog(context.Context) ([]*entities.Medication, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.meds, nil
}

type fakeInventoryRepo struct {
	mu    sync.Mutex
	items []*entities.InventoryItem
	err   error
	calls int
}

func (r *fakeInventoryRepo) FindAvailable(_ context.Context, q repositories.StockQuery) ([]*entities.InventoryItem, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.InventoryItem
	for _, item := range r.items {
		if q.MedicationID == "" || item.MedicationID == q.MedicationID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakePharmacyRepo struct {
	pharmacies []*entities.Pharmacy
	err        error
}

func (r *fakePharmacyRepo) GetByID(_ context.Context, id string) (*entities.Pharmacy, error) {
	for _, p := range r.pharmacies {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePharmacyRepo) ListVerified(context.Context) ([]*entities.Pharmacy, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pharmacies, nil
}

type fakeSearchLogRepo struct {
	mu     sync.Mutex
	events []*entities.SearchEvent
	err    error
}

func (r *fakeSearchLogRepo) LogEvent(_ context.Context, event *entities.SearchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeSearchLogRepo) GetZeroResultSearches(_ context.Context, limit int) ([]*entities.SearchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.SearchEvent
	for _, e := range r.events {
		if e.ResultsFound == 0 {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeSearchLogRepo) logged() []*entities.SearchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entities.SearchEvent(nil), r.events...)
}

// ---- fixtures ----

// yaounde is the test origin. pharmacyAt offsets latitude so that one
// degree is about 111.19 km.
var yaounde = geo.Point{Latitude: 3.8667, Longitude: 11.5167}

func pharmacyAt(id string, kmNorth float64, workingDays []int) *entities.Pharmacy {
	return &entities.Pharmacy{
		ID:   id,
		Name: "Pharmacie " + id,
		Location: geo.Point{
			Latitude:  yaounde.Latitude + kmNorth/111.19,
			Longitude: yaounde.Longitude,
		},
		Schedule:   entities.Schedule{WorkingDays: workingDays},
		IsVerified: true,
	}
}

func stockItem(id string, pharmacy *entities.Pharmacy, medicationID string, priceFcfa float64) *entities.InventoryItem {
	return &entities.InventoryItem{
		ID:               id,
		PharmacyID:       pharmacy.ID,
		MedicationID:     medicationID,
		QuantityInStock:  10,
		SellingPriceFcfa: priceFcfa,
		IsAvailable:      true,
		Pharmacy:         pharmacy,
	}
}

func searchFixture() (*SearchService, *fakeInventoryRepo, *fakeSearchLogRepo, *memCache) {
	// Wednesday. weekdaysOnly pharmacies are open, weekend ones closed.
	wednesday := time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC)

	weekdays := []int{1, 2, 3, 4, 5}
	weekend := []int{6, 7}

	near := pharmacyAt("ph-near", 2, weekdays)
	far := pharmacyAt("ph-far", 8, weekend)
	distant := pharmacyAt("ph-distant", 60, weekdays)

	inventory := &fakeInventoryRepo{items: []*entities.InventoryItem{
		stockItem("inv-1", far, "m1", 900),
		stockItem("inv-2", near, "m1", 1500),
		stockItem("inv-3", distant, "m1", 500),
		stockItem("inv-4", near, "m2", 700),
	}}
	medRepo := &fakeMedicationRepo{meds: []*entities.Medication{
		{ID: "m1", CommercialName: "Doliprane", DCIName: "Paracetamol"},
		{ID: "m2", CommercialName: "Spasfon", DCIName: "Phloroglucinol"},
	}}
	logRepo := &fakeSearchLogRepo{}
	cache := newMemCache()

	cfg := config.SearchConfig{
		DefaultRadiusKm:      10,
		MaxRadiusKm:          50,
		AutocompleteLimit:    10,
		ResultCacheTTL:       120,
		AutocompleteCacheTTL: 300,
	}

	medSvc := NewMedicationService(medRepo, cache, nil, cfg.AutocompleteLimit, cfg.AutocompleteCacheTTL)
	analytics := NewSearchAnalyticsService(logRepo)
	svc := NewSearchService(inventory, &fakePharmacyRepo{pharmacies: []*entities.Pharmacy{near, far, distant}},
		medSvc, analytics, cache, nil, cfg)
	svc.now = func() time.Time { return wednesday }

	return svc, inventory, logRepo, cache
}

// ---- tests ----

func TestSearchPharmacies_SortsByDistanceWithinRadius(t *testing.T) {
	svc, _, _, _ := searchFixture()

	got, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     10,
	})

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "ph-near", got[0].PharmacyID)
	assert.Equal(t, "ph-far", got[1].PharmacyID)
	assert.InDelta(t, 2, got[0].DistanceKm, 0.05)
	assert.InDelta(t, 8, got[1].DistanceKm, 0.05)
}

func TestSearchPharmacies_RadiusExcludesFarPharmacies(t *testing.T) {
	svc, _, _, _ := searchFixture()

	got, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     5,
	})

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "ph-near", got[0].PharmacyID)
}

func TestSearchPharmacies_DefaultAndMaxRadius(t *testing.T) {
	svc, _, _, _ := searchFixture()

	// Zero radius falls back to the 10 km default.
	got, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
	})
	assert.NoError(t, err)
	assert.Len(t, got, 2)

	// An oversized radius clamps to 50 km, still excluding ph-distant.
	got, err = svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     500,
	})
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchPharmacies_SuppliedRadiusBelowOneIsRejected(t *testing.T) {
	svc, inventory, _, _ := searchFixture()

	for _, radius := range []float64{-5, -0.1, 0.5} {
		_, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
			MedicationID: "m1",
			Origin:       yaounde,
			RadiusKm:     radius,
		})
		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	}
	assert.Zero(t, inventory.callCount())
}

func TestSearchPharmacies_OpenNowFilter(t *testing.T) {
	svc, _, _, _ := searchFixture()
	openOnly := true

	got, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     10,
		IsOpen:       &openOnly,
	})

	// ph-far only works weekends and the fixture clock is a Wednesday.
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "ph-near", got[0].PharmacyID)
	assert.True(t, got[0].IsOpenNow)
}

func TestSearchPharmacies_MaxPriceFilter(t *testing.T) {
	svc, _, _, _ := searchFixture()
	maxPrice := 1000.0

	got, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     10,
		MaxPrice:     &maxPrice,
	})

	// ph-near sells at 1500 FCFA, above the cap; ph-far at 900 stays.
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "ph-far", got[0].PharmacyID)
}

func TestSearchPharmacies_ResolvesFreeTextTerm(t *testing.T) {
	svc, _, _, _ := searchFixture()

	got, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		Term:     "dolipran",
		Origin:   yaounde,
		RadiusKm: 10,
	})

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "m1", r.MedicationID)
	}
}

func TestSearchPharmacies_UnknownTermIsNotFound(t *testing.T) {
	svc, _, _, _ := searchFixture()

	_, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		Term:     "xyzzy",
		Origin:   yaounde,
		RadiusKm: 10,
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestSearchPharmacies_RequiresTermOrMedicationID(t *testing.T) {
	svc, _, _, _ := searchFixture()

	_, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		Origin:   yaounde,
		RadiusKm: 10,
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestSearchPharmacies_RejectsInvalidOrigin(t *testing.T) {
	svc, _, _, _ := searchFixture()

	_, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       geo.Point{Latitude: 95, Longitude: 11.5},
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestSearchPharmacies_SecondSearchServedFromCache(t *testing.T) {
	svc, inventory, _, _ := searchFixture()
	filters := entities.SearchFilters{MedicationID: "m1", Origin: yaounde, RadiusKm: 10}

	first, err := svc.SearchPharmacies(context.Background(), filters)
	assert.NoError(t, err)
	second, err := svc.SearchPharmacies(context.Background(), filters)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inventory.callCount())
}

func TestSearchPharmacies_CachedEntryServesDifferentFilters(t *testing.T) {
	svc, inventory, _, _ := searchFixture()
	base := entities.SearchFilters{MedicationID: "m1", Origin: yaounde, RadiusKm: 10}

	_, err := svc.SearchPharmacies(context.Background(), base)
	assert.NoError(t, err)

	// Same (medication, origin, radius) with a price cap reuses the entry.
	maxPrice := 1000.0
	capped := base
	capped.MaxPrice = &maxPrice
	got, err := svc.SearchPharmacies(context.Background(), capped)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, inventory.callCount())
}

func TestSearchPharmacies_CacheOutageDoesNotBreakSearch(t *testing.T) {
	svc, inventory, _, _ := searchFixture()
	svc.cache = deadCache{}
	svc.medications.cache = deadCache{}
	filters := entities.SearchFilters{MedicationID: "m1", Origin: yaounde, RadiusKm: 10}

	first, err := svc.SearchPharmacies(context.Background(), filters)
	assert.NoError(t, err)
	assert.Len(t, first, 2)

	// Every search goes to storage while the cache is down.
	_, err = svc.SearchPharmacies(context.Background(), filters)
	assert.NoError(t, err)
	assert.Equal(t, 2, inventory.callCount())
}

func TestSearchPharmacies_StorageOutageIsUnavailable(t *testing.T) {
	svc, inventory, _, _ := searchFixture()
	inventory.err = errors.New("connection refused")

	_, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     10,
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, apperrors.TypeOf(err))
}

func TestSearchPharmacies_TracksSearchEvent(t *testing.T) {
	svc, _, logRepo, _ := searchFixture()

	_, err := svc.SearchPharmacies(context.Background(), entities.SearchFilters{
		MedicationID: "m1",
		Origin:       yaounde,
		RadiusKm:     10,
	})
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(logRepo.logged()) == 1
	}, time.Second, 10*time.Millisecond)

	event := logRepo.logged()[0]
	assert.Equal(t, "m1", event.MedicationID)
	assert.Equal(t, 2, event.ResultsFound)
	assert.InDelta(t, yaounde.Latitude, event.Latitude, 1e-9)
	assert.Equal(t, 10.0, event.RadiusKm)
}

func TestGetNearbyPharmacies_SortsAndFlagsOpen(t *testing.T) {
	svc, _, _, _ := searchFixture()

	got, err := svc.GetNearbyPharmacies(context.Background(), yaounde, 10)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "ph-near", got[0].ID)
	assert.True(t, got[0].IsOpenNow)
	assert.Equal(t, "ph-far", got[1].ID)
	assert.False(t, got[1].IsOpenNow)
}
