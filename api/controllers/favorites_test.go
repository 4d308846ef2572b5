package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/satyam539813/farmappsample/internal/favorites"
	"github.com/satyam539813/farmappsample/internal/session"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
)

type stubFavorites struct {
	ids    map[int]bool
	addErr error
}

func (s *stubFavorites) list(sess session.Session) favorites.List {
	out := favorites.List{Mode: sess.Mode()}
	for id := range s.ids {
		out.Items = append(out.Items, favorites.Item{ProductID: id})
	}
	out.Count = len(out.Items)
	return out
}

func (s *stubFavorites) List(ctx context.Context, sess session.Session) (*favorites.List, error) {
	list := s.list(sess)
	return &list, nil
}

func (s *stubFavorites) IsFavorite(ctx context.Context, sess session.Session, productID int) (bool, error) {
	return s.ids[productID], nil
}

func (s *stubFavorites) AddToFavorites(ctx context.Context, sess session.Session, productID int) (*favorites.Result, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.ids[productID] = true
	return &favorites.Result{Favorites: s.list(sess)}, nil
}

func (s *stubFavorites) RemoveFromFavorites(ctx context.Context, sess session.Session, productID int) (*favorites.Result, error) {
	delete(s.ids, productID)
	return &favorites.Result{Favorites: s.list(sess)}, nil
}

func (s *stubFavorites) ClearFavorites(ctx context.Context, sess session.Session) (*favorites.Result, error) {
	s.ids = map[int]bool{}
	return &favorites.Result{Favorites: s.list(sess)}, nil
}

func favoritesRouter(svc *stubFavorites) http.Handler {
	r := chi.NewRouter()
	r.Get("/favorites", FavoritesList(svc, nil))
	r.Post("/favorites", FavoritesAdd(svc, nil))
	r.Delete("/favorites", FavoritesClear(svc, nil))
	r.Get("/favorites/{productId}", FavoritesStatus(svc, nil))
	r.Delete("/favorites/{productId}", FavoritesRemove(svc, nil))
	return r
}

func TestFavoritesAddAndStatus(t *testing.T) {
	svc := &stubFavorites{ids: map[int]bool{}}
	router := favoritesRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, anonymousRequest(httptest.NewRequest(http.MethodPost, "/favorites", strings.NewReader(`{"product_id":5}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, anonymousRequest(httptest.NewRequest(http.MethodGet, "/favorites/5", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var status favoriteStatusResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.IsFavorite || status.ProductID != 5 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestFavoritesAddDuplicateConflict(t *testing.T) {
	svc := &stubFavorites{ids: map[int]bool{}, addErr: pkgerrors.New(pkgerrors.CodeConflict, "This item is already in your favorites.").
		WithNotice("Already in favorites", "This item is already in your favorites.")}

	rec := httptest.NewRecorder()
	favoritesRouter(svc).ServeHTTP(rec, anonymousRequest(httptest.NewRequest(http.MethodPost, "/favorites", strings.NewReader(`{"product_id":5}`))))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Message != "This item is already in your favorites." {
		t.Fatalf("unexpected error %+v", env.Error)
	}
}

func TestFavoritesRemoveBadID(t *testing.T) {
	rec := httptest.NewRecorder()
	favoritesRouter(&stubFavorites{ids: map[int]bool{}}).ServeHTTP(rec, anonymousRequest(httptest.NewRequest(http.MethodDelete, "/favorites/zero", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestFavoritesClear(t *testing.T) {
	svc := &stubFavorites{ids: map[int]bool{1: true, 2: true}}
	rec := httptest.NewRecorder()
	favoritesRouter(svc).ServeHTTP(rec, anonymousRequest(httptest.NewRequest(http.MethodDelete, "/favorites", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.ids) != 0 {
		t.Fatalf("expected favorites cleared")
	}
}
