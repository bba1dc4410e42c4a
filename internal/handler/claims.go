package handler

import (
	"net/http"

	"fleet-tracker/internal/middleware"
	"fleet-tracker/internal/model"
	"fleet-tracker/pkg/apierror"
)

// requireClaims pulls the authenticated claims from the request context and
// writes the 401 itself when they are missing. Every tenant-scoped handler
// goes through this so queries are always organization-bound.
func requireClaims(w http.ResponseWriter, r *http.Request) (*model.AuthClaims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return nil, false
	}
	return claims, true
}
