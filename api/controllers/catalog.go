package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/api/responses"
	"github.com/staysupply/staysupply-backend/api/validators"
	"github.com/staysupply/staysupply-backend/internal/catalog"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/logger"
	"github.com/staysupply/staysupply-backend/pkg/pagination"
)

// ProductList returns a catalog page filtered by category and stock.
func ProductList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var categoryID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("categoryId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id"))
				return
			}
			categoryID = &id
		}
		inStockOnly := r.URL.Query().Get("inStock") == "true"

		page, err := svc.List(r.Context(), categoryID, inStockOnly, pagination.Params{
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

// ProductGet returns a single product.
func ProductGet(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CategoryList returns all product categories.
func CategoryList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}
