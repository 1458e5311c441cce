package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pharmafind/backend/internal/api/handlers"
	"github.com/pharmafind/backend/internal/domain/entities"
)

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}

func TestGetZeroResultSearches_ReturnsEvents(t *testing.T) {
	svc := new(MockAnalyticsService)
	handler := handlers.NewAnalyticsHandler(svc)

	events := []*entities.SearchEvent{
		{ID: "e1", MedicationID: "m9", ResultsFound: 0},
	}
	svc.On("GetZeroResultSearches", mock.Anything, 10).Return(events, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/zero-result-searches?limit=10", nil)
	rec := httptest.NewRecorder()

	handler.GetZeroResultSearches(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Searches []*entities.SearchEvent `json:"searches"`
		Count    int                     `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "e1", resp.Searches[0].ID)
	svc.AssertExpectations(t)
}

func TestGetZeroResultSearches_DefaultsLimit(t *testing.T) {
	svc := new(MockAnalyticsService)
	handler := handlers.NewAnalyticsHandler(svc)

	svc.On("GetZeroResultSearches", mock.Anything, 50).Return([]*entities.SearchEvent{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/zero-result-searches", nil)
	rec := httptest.NewRecorder()

	handler.GetZeroResultSearches(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetZeroResultSearches_RejectsBadLimit(t *testing.T) {
	svc := new(MockAnalyticsService)
	handler := handlers.NewAnalyticsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/zero-result-searches?limit=-1", nil)
	rec := httptest.NewRecorder()

	handler.GetZeroResultSearches(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetZeroResultSearches")
}
