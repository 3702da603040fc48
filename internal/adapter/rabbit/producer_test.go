package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	event := models.NewEvent(types.EventFavoriteAdded, "ada")
	event.Title = "Dune"
	event.Favorites = []string{"Dune"}

	key, msg, err := newPublishing(event)
	require.NoError(t, err)

	assert.Equal(t, "favorite.added", key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "favorite.added", body["type"])
	assert.Equal(t, "ada", body["username"])
	assert.Equal(t, "Dune", body["title"])
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("channel closed")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	boom := errors.New("boom")
	err = retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, 5, time.Second, func() error {
		calls++
		return errors.New("down")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
