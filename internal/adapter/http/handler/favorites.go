package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/validator"
)

type FavoritesService interface {
	Add(ctx context.Context, username, title string) error
	Remove(ctx context.Context, username, title string) error
	List(ctx context.Context, username string) ([]string, error)
}

type Favorites struct {
	favorites FavoritesService
	l         logger.Logger
}

func NewFavorites(service FavoritesService, l logger.Logger) *Favorites {
	return &Favorites{
		favorites: service,
		l:         l,
	}
}

// Add godoc
// @Summary      Add a favorite book
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.FavoriteBookRequest  true  "Book title"
// @Success      200      {object}  dto.MessageResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse  "user not found"
// @Failure      409      {object}  dto.ErrorResponse  "book is already in favorites"
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /favorites/add [post]
func (h *Favorites) Add(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "add_favorite")

	req, ok := h.readBook(w, r)
	if !ok {
		return
	}

	if err := h.favorites.Add(ctx, models.UsernameFromContext(ctx), req.Book); err != nil {
		h.logFailure(ctx, "failed to add favorite", err)
		serviceErrorResponse(w, err)
		return
	}

	h.writeMessage(ctx, w, fmt.Sprintf("Book '%s' added to favorites.", req.Book))
}

// Remove godoc
// @Summary      Remove a favorite book
// @Description  Removing a book that is not in the list succeeds
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.FavoriteBookRequest  true  "Book title"
// @Success      200      {object}  dto.MessageResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse  "user not found"
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /favorites/delete [delete]
func (h *Favorites) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "remove_favorite")

	req, ok := h.readBook(w, r)
	if !ok {
		return
	}

	if err := h.favorites.Remove(ctx, models.UsernameFromContext(ctx), req.Book); err != nil {
		h.logFailure(ctx, "failed to remove favorite", err)
		serviceErrorResponse(w, err)
		return
	}

	h.writeMessage(ctx, w, fmt.Sprintf("Book '%s' removed from favorites.", req.Book))
}

// List godoc
// @Summary      List favorite books
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FavoritesResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse  "user not found"
// @Router       /favorites [get]
func (h *Favorites) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_favorites")

	list, err := h.favorites.List(ctx, models.UsernameFromContext(ctx))
	if err != nil {
		h.logFailure(ctx, "failed to list favorites", err)
		serviceErrorResponse(w, err)
		return
	}
	if list == nil {
		list = []string{}
	}

	if err := writeJSON(w, http.StatusOK, envelope{"favorites": list}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

func (h *Favorites) readBook(w http.ResponseWriter, r *http.Request) (*dto.FavoriteBookRequest, bool) {
	req := &dto.FavoriteBookRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return nil, false
	}

	v := validator.New()
	dto.ValidateFavoriteBook(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return nil, false
	}
	// the service stores trimmed titles; echo the same title back
	req.Book = strings.TrimSpace(req.Book)
	return req, true
}

func (h *Favorites) writeMessage(ctx context.Context, w http.ResponseWriter, msg string) {
	if err := writeJSON(w, http.StatusOK, envelope{"message": msg}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

// logFailure logs expected outcomes at warn level and everything else as errors.
func (h *Favorites) logFailure(ctx context.Context, msg string, err error) {
	ctx = wrap.ErrorCtx(ctx, err)
	if GetCode(err) >= http.StatusInternalServerError {
		h.l.Error(ctx, msg, err)
		return
	}
	h.l.Warn(ctx, msg, "error", err.Error())
}
