package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleet-tracker/internal/event"
	"fleet-tracker/internal/model"
)

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

func TestVehicleServiceDelete(t *testing.T) {
	now := time.Now().UTC()

	t.Run("deletes and publishes event", func(t *testing.T) {
		store := new(mockVehicleStore)
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		deleted := model.Vehicle{
			ID:             "veh-1",
			OrganizationID: "org-1",
			Name:           "Excavator 12",
			IsDeleted:      true,
			DeletedAt:      &now,
		}
		store.On("SoftDelete", mock.Anything, "org-1", "veh-1").Return(deleted, int64(1), nil)

		svc := NewVehicleService(store, bus)
		resp, err := svc.Delete(context.Background(), "org-1", "veh-1")
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.Affected)
		assert.Equal(t, "Excavator 12", resp.Name)
		assert.Contains(t, resp.Message, "Excavator 12")

		select {
		case e := <-events:
			assert.Equal(t, event.TypeVehicleDeleted, e.Type)
		case <-time.After(time.Second):
			t.Fatal("expected vehicle.deleted event")
		}
		store.AssertExpectations(t)
	})

	t.Run("zero rows is a no-op, not an error", func(t *testing.T) {
		store := new(mockVehicleStore)
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		store.On("SoftDelete", mock.Anything, "org-1", "veh-gone").Return(model.Vehicle{}, int64(0), nil)

		svc := NewVehicleService(store, bus)
		resp, err := svc.Delete(context.Background(), "org-1", "veh-gone")
		require.NoError(t, err)

		assert.Equal(t, int64(0), resp.Affected)
		assert.Empty(t, resp.Name)
		assert.Contains(t, resp.Message, "not deleted")

		select {
		case e := <-events:
			t.Fatalf("unexpected event %s", e.Type)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := new(mockVehicleStore)
		boom := errors.New("connection refused")
		store.On("SoftDelete", mock.Anything, "org-1", "veh-1").Return(model.Vehicle{}, int64(0), boom)

		svc := NewVehicleService(store, event.NewBus())
		_, err := svc.Delete(context.Background(), "org-1", "veh-1")
		assert.ErrorIs(t, err, boom)
	})
}

func TestVehicleServiceRestore(t *testing.T) {
	t.Run("restores and publishes event", func(t *testing.T) {
		store := new(mockVehicleStore)
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		restored := model.Vehicle{ID: "veh-2", OrganizationID: "org-1", Name: "Dozer 3"}
		store.On("Restore", mock.Anything, "org-1", "veh-2").Return(restored, int64(1), nil)

		svc := NewVehicleService(store, bus)
		resp, err := svc.Restore(context.Background(), "org-1", "veh-2")
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.Affected)
		assert.Contains(t, resp.Message, "restored")

		select {
		case e := <-events:
			assert.Equal(t, event.TypeVehicleRestored, e.Type)
		case <-time.After(time.Second):
			t.Fatal("expected vehicle.restored event")
		}
	})

	t.Run("restoring an active vehicle affects nothing", func(t *testing.T) {
		store := new(mockVehicleStore)
		store.On("Restore", mock.Anything, "org-1", "veh-3").Return(model.Vehicle{}, int64(0), nil)

		svc := NewVehicleService(store, event.NewBus())
		resp, err := svc.Restore(context.Background(), "org-1", "veh-3")
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Affected)
	})
}

func TestVehicleServiceListDeleted(t *testing.T) {
	now := time.Now().UTC()
	store := new(mockVehicleStore)
	store.On("ListDeleted", mock.Anything, "org-1").Return([]model.DeletedVehicle{
		{ID: "veh-1", Name: "Excavator 12", DeletedAt: now},
	}, nil)

	svc := NewVehicleService(store, event.NewBus())
	items, err := svc.ListDeleted(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Excavator 12", items[0].Name)
}
