package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleet-tracker/internal/model"
	"fleet-tracker/internal/service"
	"fleet-tracker/pkg/apierror"
)

type VehicleHandler struct {
	service *service.VehicleService
}

func NewVehicleHandler(service *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	vehicles, err := h.service.List(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.VehicleListData{Items: vehicles}, &model.Meta{Total: len(vehicles)})
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	vehicleID := chi.URLParam(r, "vehicle_id")
	if vehicleID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "vehicle_id is required", "vehicle_id", http.StatusBadRequest))
		return
	}

	vehicle, err := h.service.Get(r.Context(), claims.OrganizationID, vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, vehicle, nil)
}

// Delete soft-deletes a vehicle. Deleting a vehicle that is already gone is
// reported as affected: 0 with a 200, never an error.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	vehicleID := chi.URLParam(r, "vehicle_id")
	if vehicleID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "vehicle_id is required", "vehicle_id", http.StatusBadRequest))
		return
	}

	result, err := h.service.Delete(r.Context(), claims.OrganizationID, vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *VehicleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	vehicleID := chi.URLParam(r, "vehicle_id")
	if vehicleID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "vehicle_id is required", "vehicle_id", http.StatusBadRequest))
		return
	}

	result, err := h.service.Restore(r.Context(), claims.OrganizationID, vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *VehicleHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListDeleted(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.DeletedVehicleListData{Items: items}, &model.Meta{Total: len(items)})
}
