package controllers

import (
	"context"
	"net/http"

	"github.com/satyam539813/farmappsample/api/responses"
	"github.com/satyam539813/farmappsample/api/validators"
	"github.com/satyam539813/farmappsample/internal/favorites"
	"github.com/satyam539813/farmappsample/internal/session"
	"github.com/satyam539813/farmappsample/pkg/logger"
)

type favoritesService interface {
	List(ctx context.Context, sess session.Session) (*favorites.List, error)
	IsFavorite(ctx context.Context, sess session.Session, productID int) (bool, error)
	AddToFavorites(ctx context.Context, sess session.Session, productID int) (*favorites.Result, error)
	RemoveFromFavorites(ctx context.Context, sess session.Session, productID int) (*favorites.Result, error)
	ClearFavorites(ctx context.Context, sess session.Session) (*favorites.Result, error)
}

type addFavoriteRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type favoriteStatusResponse struct {
	ProductID  int  `json:"product_id"`
	IsFavorite bool `json:"is_favorite"`
}

func FavoritesList(svc favoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func FavoritesAdd(svc favoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req addFavoriteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, withNotice(err, "Failed to add favorite"))
			return
		}
		res, err := svc.AddToFavorites(r.Context(), sess, req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessNotice(w, res.Favorites, res.Notice)
	}
}

func FavoritesStatus(svc favoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseURLInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ok, err := svc.IsFavorite(r.Context(), sess, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, favoriteStatusResponse{ProductID: productID, IsFavorite: ok})
	}
}

func FavoritesRemove(svc favoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseURLInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.RemoveFromFavorites(r.Context(), sess, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessNotice(w, res.Favorites, res.Notice)
	}
}

func FavoritesClear(svc favoritesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := requestSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.ClearFavorites(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessNotice(w, res.Favorites, res.Notice)
	}
}
