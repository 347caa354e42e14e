package controllers

import (
	"net/http"
	"strings"

	"github.com/staysupply/staysupply-backend/api/responses"
	"github.com/staysupply/staysupply-backend/api/validators"
	"github.com/staysupply/staysupply-backend/internal/managers"
	"github.com/staysupply/staysupply-backend/pkg/logger"
	"github.com/staysupply/staysupply-backend/pkg/pagination"
)

// ManagerList returns a marketplace page, optionally filtered to a region.
func ManagerList(svc *managers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var region *string
		if raw := strings.TrimSpace(r.URL.Query().Get("region")); raw != "" {
			region = &raw
		}

		page, err := svc.List(r.Context(), region, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ManagerGet returns a manager profile with regions and reviews.
func ManagerGet(svc *managers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		managerID, err := validators.ParseUUIDParam(r, "managerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager, err := svc.Get(r.Context(), managerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, manager)
	}
}

// ManagerReview records a rating for a manager.
func ManagerReview(svc *managers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		managerID, err := validators.ParseUUIDParam(r, "managerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reviewerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload managers.ReviewInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Review(r.Context(), managerID, reviewerID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
