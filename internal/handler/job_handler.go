package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleet-tracker/internal/model"
	"fleet-tracker/internal/service"
	"fleet-tracker/pkg/apierror"
)

type JobHandler struct {
	service *service.JobService
}

func NewJobHandler(service *service.JobService) *JobHandler {
	return &JobHandler{service: service}
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	jobs, err := h.service.List(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.JobListData{Items: jobs}, &model.Meta{Total: len(jobs)})
}

func (h *JobHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	jobCode := chi.URLParam(r, "job_code")
	if jobCode == "" {
		writeError(w, apierror.New("BAD_REQUEST", "job_code is required", "job_code", http.StatusBadRequest))
		return
	}

	job, err := h.service.GetByCode(r.Context(), claims.OrganizationID, jobCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, job, nil)
}
