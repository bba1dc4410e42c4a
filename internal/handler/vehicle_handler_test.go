package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleet-tracker/internal/event"
	"fleet-tracker/internal/middleware"
	"fleet-tracker/internal/model"
	"fleet-tracker/internal/service"
)

type stubValidator struct {
	claims *model.AuthClaims
}

func (s *stubValidator) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	return s.claims, nil
}

type mockVehicleStore struct {
	mock.Mock
}

func (m *mockVehicleStore) SoftDelete(ctx context.Context, orgID, vehicleID string) (model.Vehicle, int64, error) {
	args := m.Called(ctx, orgID, vehicleID)
	return args.Get(0).(model.Vehicle), args.Get(1).(int64), args.Error(2)
}

func (m *mockVehicleStore) Restore(ctx context.Context, orgID, vehicleID string) (model.Vehicle, int64, error) {
	args := m.Called(ctx, orgID, vehicleID)
	return args.Get(0).(model.Vehicle), args.Get(1).(int64), args.Error(2)
}

func (m *mockVehicleStore) ListDeleted(ctx context.Context, orgID string) ([]model.DeletedVehicle, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]model.DeletedVehicle), args.Error(1)
}

func (m *mockVehicleStore) List(ctx context.Context, orgID string) ([]model.Vehicle, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]model.Vehicle), args.Error(1)
}

func (m *mockVehicleStore) FindByID(ctx context.Context, orgID, vehicleID string) (model.Vehicle, error) {
	args := m.Called(ctx, orgID, vehicleID)
	return args.Get(0).(model.Vehicle), args.Error(1)
}

func newVehicleTestRouter(store *mockVehicleStore) http.Handler {
	svc := service.NewVehicleService(store, event.NewBus())
	h := NewVehicleHandler(svc)

	auth := middleware.NewAuthMiddleware(&stubValidator{claims: &model.AuthClaims{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Username:       "dispatcher",
		Role:           "dispatcher",
		Type:           "access",
	}})

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/api/v1/vehicles", h.List)
		r.Delete("/api/v1/vehicles/{vehicle_id}", h.Delete)
		r.Post("/api/v1/vehicles/{vehicle_id}/restore", h.Restore)
		r.Get("/api/v1/vehicles/deleted", h.ListDeleted)
	})
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, target string) (*httptest.ResponseRecorder, model.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestVehicleHandlerDelete(t *testing.T) {
	t.Run("existing vehicle", func(t *testing.T) {
		store := new(mockVehicleStore)
		now := time.Now().UTC()
		store.On("SoftDelete", mock.Anything, "org-1", "veh-1").Return(model.Vehicle{
			ID:             "veh-1",
			OrganizationID: "org-1",
			Name:           "Excavator 12",
			IsDeleted:      true,
			DeletedAt:      &now,
		}, int64(1), nil)

		rec, body := doJSON(t, newVehicleTestRouter(store), http.MethodDelete, "/api/v1/vehicles/veh-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, body.Success)

		data := body.Data.(map[string]any)
		assert.Equal(t, float64(1), data["affected"])
		assert.Equal(t, "Excavator 12", data["name"])
		store.AssertExpectations(t)
	})

	t.Run("missing or already deleted vehicle is a 200 no-op", func(t *testing.T) {
		store := new(mockVehicleStore)
		store.On("SoftDelete", mock.Anything, "org-1", "veh-gone").Return(model.Vehicle{}, int64(0), nil)

		rec, body := doJSON(t, newVehicleTestRouter(store), http.MethodDelete, "/api/v1/vehicles/veh-gone")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, body.Success)

		data := body.Data.(map[string]any)
		assert.Equal(t, float64(0), data["affected"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		store := new(mockVehicleStore)
		router := newVehicleTestRouter(store)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/veh-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		store.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVehicleHandlerRestore(t *testing.T) {
	store := new(mockVehicleStore)
	store.On("Restore", mock.Anything, "org-1", "veh-2").Return(model.Vehicle{
		ID:             "veh-2",
		OrganizationID: "org-1",
		Name:           "Dozer 3",
	}, int64(1), nil)

	rec, body := doJSON(t, newVehicleTestRouter(store), http.MethodPost, "/api/v1/vehicles/veh-2/restore")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	data := body.Data.(map[string]any)
	assert.Equal(t, float64(1), data["affected"])
	assert.Equal(t, "Dozer 3", data["name"])
}

func TestVehicleHandlerListDeleted(t *testing.T) {
	store := new(mockVehicleStore)
	deletedAt := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	store.On("ListDeleted", mock.Anything, "org-1").Return([]model.DeletedVehicle{
		{ID: "veh-1", Name: "Excavator 12", ExternalID: "sam-100", SourceSystem: "samsara", DeletedAt: deletedAt},
	}, nil)

	rec, body := doJSON(t, newVehicleTestRouter(store), http.MethodGet, "/api/v1/vehicles/deleted")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 1, body.Meta.Total)

	data := body.Data.(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Excavator 12", items[0].(map[string]any)["name"])
}
