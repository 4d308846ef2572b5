package controllers

import (
	"net/http"

	"github.com/satyam539813/farmappsample/api/responses"
	"github.com/satyam539813/farmappsample/api/validators"
	"github.com/satyam539813/farmappsample/internal/catalog"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
)

type catalogReader interface {
	Filter(f catalog.Filter) []catalog.Product
	Featured() []catalog.Product
	ProductByID(id int) (catalog.Product, bool)
	Categories() []catalog.Category
	CategoryProducts(categoryID, limit int) (catalog.CategoryDetail, bool)
}

// ProductList returns catalog products narrowed by the query filters.
func ProductList(cat catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseProductFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cat.Filter(filter))
	}
}

func parseProductFilter(r *http.Request) (catalog.Filter, error) {
	var (
		filter catalog.Filter
		err    error
	)
	filter.Category = validators.SanitizeString(r.URL.Query().Get("category"), 64)
	if filter.Organic, err = validators.ParseQueryBool(r, "organic"); err != nil {
		return filter, err
	}
	if filter.OnSale, err = validators.ParseQueryBool(r, "on_sale"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = validators.ParseQueryDecimal(r, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = validators.ParseQueryDecimal(r, "max_price"); err != nil {
		return filter, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return filter, pkgerrors.New(pkgerrors.CodeValidation, "min_price must not exceed max_price")
	}
	return filter, nil
}

func ProductFeatured(cat catalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Featured())
	}
}

func ProductDetail(cat catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, ok := cat.ProductByID(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CategoryList(cat catalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Categories())
	}
}

// CategoryDetail returns a category with a preview of its products. The
// limit query parameter widens the preview.
func CategoryDetail(cat catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLInt(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", catalog.CategoryPreviewLimit, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, ok := cat.CategoryProducts(id, limit)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "category not found"))
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
