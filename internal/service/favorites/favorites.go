package favorites

import (
	"context"
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/metrics"
	"github.com/Temutjin2k/bookshelf-auth/pkg/trm"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opList   = "list"
)

type FavoritesService struct {
	repo   FavoriteRepo
	events EventPublisher
	trm    trm.TxManager
	log    logger.Logger
}

func NewFavoritesService(repo FavoriteRepo, events EventPublisher, trm trm.TxManager, log logger.Logger) *FavoritesService {
	return &FavoritesService{
		repo:   repo,
		events: events,
		trm:    trm,
		log:    log,
	}
}

// Add appends title to the user's list.
func (s *FavoritesService) Add(ctx context.Context, username, title string) (err error) {
	ctx = wrap.WithAction(ctx, "favorite_add")
	ctx = wrap.WithUsername(ctx, username)
	defer func() { metrics.RecordFavoriteOperation(opAdd, err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		return types.ErrValidation
	}

	var list []string
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.Add(ctx, username, title); err != nil {
			return err
		}
		titles, err := s.list(ctx, username)
		list = titles
		return err
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to add favorite")
	}

	s.log.Debug(ctx, "favorite added", "title", title)
	s.publish(ctx, types.EventFavoriteAdded, username, title, list)
	return nil
}

// Remove deletes title from the user's list. Removing a title that is not there succeeds.
func (s *FavoritesService) Remove(ctx context.Context, username, title string) (err error) {
	ctx = wrap.WithAction(ctx, "favorite_remove")
	ctx = wrap.WithUsername(ctx, username)
	defer func() { metrics.RecordFavoriteOperation(opRemove, err) }()

	title = strings.TrimSpace(title)

	var (
		removed bool
		list    []string
	)
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		// listing first proves the owner exists
		if _, err := s.list(ctx, username); err != nil {
			return err
		}

		ok, err := s.repo.Remove(ctx, username, title)
		if err != nil || !ok {
			return err
		}
		removed = true

		titles, err := s.list(ctx, username)
		list = titles
		return err
	})
	if err != nil {
		return s.mapErr(ctx, err, "failed to remove favorite")
	}

	if removed {
		s.log.Debug(ctx, "favorite removed", "title", title)
		s.publish(ctx, types.EventFavoriteRemoved, username, title, list)
	}
	return nil
}

// List returns the user's titles in insertion order.
func (s *FavoritesService) List(ctx context.Context, username string) (list []string, err error) {
	ctx = wrap.WithAction(ctx, "favorite_list")
	ctx = wrap.WithUsername(ctx, username)
	defer func() { metrics.RecordFavoriteOperation(opList, err) }()

	err = s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		titles, err := s.list(ctx, username)
		list = titles
		return err
	})
	if err != nil {
		return nil, s.mapErr(ctx, err, "failed to list favorites")
	}
	return list, nil
}

func (s *FavoritesService) list(ctx context.Context, username string) ([]string, error) {
	favs, err := s.repo.List(ctx, username)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(favs))
	for _, f := range favs {
		titles = append(titles, f.Title)
	}
	return titles, nil
}

func (s *FavoritesService) publish(ctx context.Context, t types.EventType, username, title string, list []string) {
	event := models.NewEvent(t, username)
	event.Title = title
	event.Favorites = list
	s.events.Publish(ctx, event)
}

// mapErr keeps domain errors and hides everything else behind ErrUnexpected.
func (s *FavoritesService) mapErr(ctx context.Context, err error, msg string) error {
	if types.IsOneOf(err, types.ErrUserNotFound, types.ErrAlreadyFavorite, types.ErrValidation) {
		return err
	}
	s.log.Error(wrap.ErrorCtx(ctx, err), msg, err)
	return types.ErrUnexpected
}
