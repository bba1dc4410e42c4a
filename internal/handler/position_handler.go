package handler

import (
	"net/http"

	"fleet-tracker/internal/model"
	"fleet-tracker/internal/service"
)

type PositionHandler struct {
	service *service.PositionService
}

func NewPositionHandler(service *service.PositionService) *PositionHandler {
	return &PositionHandler{service: service}
}

// Latest returns one row per active vehicle, ordered by vehicle name.
// Deleted vehicles never appear here; the backing view filters them out.
func (h *PositionHandler) Latest(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	positions, err := h.service.Latest(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.LatestPositionListData{Items: positions}, &model.Meta{Total: len(positions)})
}
