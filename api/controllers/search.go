package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradecove/catalog-backend/api/responses"
	"github.com/tradecove/catalog-backend/api/validators"
	searchsvc "github.com/tradecove/catalog-backend/internal/search"
	pkgerrors "github.com/tradecove/catalog-backend/pkg/errors"
	"github.com/tradecove/catalog-backend/pkg/logger"
	"github.com/tradecove/catalog-backend/pkg/pagination"
)

// SearchProducts handles GET /api/v1/search.
func SearchProducts(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		input, err := buildSearchInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SearchProductByID handles GET /api/v1/search/products/{id}.
func SearchProductByID(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ProductByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if detail == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// PopularQueries handles GET /api/v1/search/popular-queries.
func PopularQueries(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		queries, err := svc.PopularQueries(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, queries)
	}
}

func buildSearchInput(r *http.Request) (*searchsvc.SearchInput, error) {
	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return nil, err
	}
	supplierID, err := validators.ParseQueryUUID(r, "supplier_id")
	if err != nil {
		return nil, err
	}
	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return nil, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return nil, err
	}
	attributes, err := validators.ParseQueryJSONMap(r, "attributes")
	if err != nil {
		return nil, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return nil, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, int(^uint(0)>>1))
	if err != nil {
		return nil, err
	}

	return &searchsvc.SearchInput{
		Query:      r.URL.Query().Get("q"),
		CategoryID: categoryID,
		SupplierID: supplierID,
		PriceMin:   priceMin,
		PriceMax:   priceMax,
		Attributes: attributes,
		Limit:      limit,
		Offset:     offset,
	}, nil
}
