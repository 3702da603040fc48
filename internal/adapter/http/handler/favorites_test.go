package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(r *http.Request, username string) *http.Request {
	return r.WithContext(models.WithUsername(r.Context(), username))
}

func TestFavorites_AddListRemove(t *testing.T) {
	h := NewFavorites(newFakeFavorites(), logger.Discard())

	add := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.Add(rec, asUser(httptest.NewRequest(http.MethodPost, "/favorites/add", strings.NewReader(body)), "ada"))
		return rec
	}

	rec := add(`{"book":"Dune"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Book 'Dune' added to favorites.", decode(t, rec)["message"])

	require.Equal(t, http.StatusOK, add(`{"book":"Emma"}`).Code)
	assert.Equal(t, http.StatusConflict, add(`{"book":"Dune"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, add(`{"book":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, add(`not json`).Code)

	rec = httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/favorites", nil), "ada"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Dune", "Emma"}, decode(t, rec)["favorites"])

	rec = httptest.NewRecorder()
	h.Remove(rec, asUser(httptest.NewRequest(http.MethodDelete, "/favorites/delete", strings.NewReader(`{"book":"Dune"}`)), "ada"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book 'Dune' removed from favorites.", decode(t, rec)["message"])

	rec = httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/favorites", nil), "ada"))
	assert.Equal(t, []any{"Emma"}, decode(t, rec)["favorites"])
}

func TestFavorites_MessagesUseTrimmedTitle(t *testing.T) {
	h := NewFavorites(newFakeFavorites(), logger.Discard())

	rec := httptest.NewRecorder()
	h.Add(rec, asUser(httptest.NewRequest(http.MethodPost, "/favorites/add", strings.NewReader(`{"book":"  Dune "}`)), "ada"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Book 'Dune' added to favorites.", decode(t, rec)["message"])

	rec = httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/favorites", nil), "ada"))
	assert.Equal(t, []any{"Dune"}, decode(t, rec)["favorites"])

	rec = httptest.NewRecorder()
	h.Remove(rec, asUser(httptest.NewRequest(http.MethodDelete, "/favorites/delete", strings.NewReader(`{"book":"Dune\t"}`)), "ada"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book 'Dune' removed from favorites.", decode(t, rec)["message"])
}

func TestFavorites_EmptyListIsArray(t *testing.T) {
	h := NewFavorites(newFakeFavorites(), logger.Discard())

	rec := httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/favorites", nil), "ada"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"favorites": []`)
}

func TestFavorites_UnknownUser(t *testing.T) {
	h := NewFavorites(newFakeFavorites(), logger.Discard())

	rec := httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/favorites", nil), "ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Add(rec, asUser(httptest.NewRequest(http.MethodPost, "/favorites/add", strings.NewReader(`{"book":"Dune"}`)), "ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavorites_StoreFailure(t *testing.T) {
	favs := newFakeFavorites()
	favs.err = errors.New("context deadline exceeded")
	h := NewFavorites(favs, logger.Discard())

	rec := httptest.NewRecorder()
	h.List(rec, asUser(httptest.NewRequest(http.MethodGet, "/favorites", nil), "ada"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["error"])
}
