package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fleet-tracker/internal/event"
	"fleet-tracker/internal/model"
)

// VehicleStore is the slice of the vehicle repository the service needs.
type VehicleStore interface {
	SoftDelete(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, int64, error)
	Restore(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, int64, error)
	ListDeleted(ctx context.Context, orgID string) ([]model.DeletedVehicle, error)
	List(ctx context.Context, orgID string) ([]model.Vehicle, error)
	FindByID(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, error)
}

type VehicleService struct {
	store VehicleStore
	bus   event.Bus
}

func NewVehicleService(store VehicleStore, bus event.Bus) *VehicleService {
	return &VehicleService{store: store, bus: bus}
}

// Delete soft-deletes a vehicle within the caller's organization. A zero-row
// outcome (missing, foreign, or already deleted) is reported, not failed.
func (s *VehicleService) Delete(ctx context.Context, orgID string, vehicleID string) (model.VehicleMutationResponse, error) {
	v, affected, err := s.store.SoftDelete(ctx, orgID, vehicleID)
	if err != nil {
		return model.VehicleMutationResponse{}, err
	}

	resp := model.VehicleMutationResponse{VehicleID: vehicleID, Affected: affected}
	if affected == 0 {
		resp.Message = "vehicle was not deleted: not found or already deleted"
		return resp, nil
	}

	resp.Name = v.Name
	resp.Message = fmt.Sprintf("Vehicle %q deleted", v.Name)

	s.publish(event.TypeVehicleDeleted, map[string]any{
		"vehicle_id":      v.ID,
		"organization_id": v.OrganizationID,
		"name":            v.Name,
		"deleted_at":      v.DeletedAt,
	})

	return resp, nil
}

// Restore brings a soft-deleted vehicle back, with the same zero-row
// semantics as Delete.
func (s *VehicleService) Restore(ctx context.Context, orgID string, vehicleID string) (model.VehicleMutationResponse, error) {
	v, affected, err := s.store.Restore(ctx, orgID, vehicleID)
	if err != nil {
		return model.VehicleMutationResponse{}, err
	}

	resp := model.VehicleMutationResponse{VehicleID: vehicleID, Affected: affected}
	if affected == 0 {
		resp.Message = "vehicle was not restored: not found or not deleted"
		return resp, nil
	}

	resp.Name = v.Name
	resp.Message = fmt.Sprintf("Vehicle %q restored", v.Name)

	s.publish(event.TypeVehicleRestored, map[string]any{
		"vehicle_id":      v.ID,
		"organization_id": v.OrganizationID,
		"name":            v.Name,
	})

	return resp, nil
}

func (s *VehicleService) ListDeleted(ctx context.Context, orgID string) ([]model.DeletedVehicle, error) {
	return s.store.ListDeleted(ctx, orgID)
}

func (s *VehicleService) List(ctx context.Context, orgID string) ([]model.Vehicle, error) {
	return s.store.List(ctx, orgID)
}

func (s *VehicleService) Get(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, error) {
	return s.store.FindByID(ctx, orgID, vehicleID)
}

func (s *VehicleService) publish(typ event.Type, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
