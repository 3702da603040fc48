package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(_ context.Context, e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestFanout_DeliversInOrderToAllSinks(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &recordingSink{}
	f := NewFanout(logger.Discard(), 8, failing, ok)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = f.Run(ctx)
		close(done)
	}()

	f.Publish(context.Background(), models.NewEvent(types.EventUserRegistered, "ada"))
	f.Publish(context.Background(), models.NewEvent(types.EventFavoriteAdded, "ada"))

	require.Eventually(t, func() bool { return ok.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	// a failing sink does not stop the others
	assert.Equal(t, 2, failing.count())
	assert.Equal(t, types.EventUserRegistered, ok.events[0].Type)
	assert.Equal(t, types.EventFavoriteAdded, ok.events[1].Type)
}

func TestFanout_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{}
	f := NewFanout(logger.Discard(), 1, sink)

	f.Publish(context.Background(), models.NewEvent(types.EventUserRegistered, "a"))
	f.Publish(context.Background(), models.NewEvent(types.EventUserRegistered, "b"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, f.Run(ctx))

	require.Equal(t, 1, sink.count())
	assert.Equal(t, "a", sink.events[0].Username)
}

func TestFanout_NoSinks(t *testing.T) {
	f := NewFanout(logger.Discard(), 1)
	for range 10 {
		f.Publish(context.Background(), models.NewEvent(types.EventUserRegistered, "a"))
	}
	assert.Empty(t, f.queue)
}
