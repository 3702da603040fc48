//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/trm"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bookshelf_test"),
		tcpostgres.WithUsername("bookshelf"),
		tcpostgres.WithPassword("bookshelf"),
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "migrations", "001_init.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	return pool
}

func TestRepositories(t *testing.T) {
	pool := setupPool(t)
	users := NewUserRepo(pool, time.Second)
	favs := NewFavoriteRepo(pool, time.Second)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		u := &models.User{Username: "ada", Name: "Ada", PasswordHash: "$2a$10$hash"}
		require.NoError(t, users.Create(ctx, u))
		assert.False(t, u.CreatedAt.IsZero())

		err := users.Create(ctx, &models.User{Username: "ada", Name: "Other", PasswordHash: "x"})
		assert.ErrorIs(t, err, types.ErrUsernameTaken)

		got, err := users.GetByUsername(ctx, "ada")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Ada", got.Name)
		assert.Equal(t, "$2a$10$hash", got.PasswordHash)

		missing, err := users.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)

		require.NoError(t, users.Create(ctx, &models.User{Username: "fed@example.com", Name: "Fed"}))
		fed, err := users.GetByUsername(ctx, "fed@example.com")
		require.NoError(t, err)
		assert.True(t, fed.IsFederatedOnly())
	})

	t.Run("favorites", func(t *testing.T) {
		list, err := favs.List(ctx, "ada")
		require.NoError(t, err)
		assert.Empty(t, list)

		for _, title := range []string{"Dune", "Emma", "Beloved"} {
			require.NoError(t, favs.Add(ctx, "ada", title))
		}
		assert.ErrorIs(t, favs.Add(ctx, "ada", "Dune"), types.ErrAlreadyFavorite)
		assert.ErrorIs(t, favs.Add(ctx, "ghost", "Dune"), types.ErrUserNotFound)

		list, err = favs.List(ctx, "ada")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "Dune", list[0].Title)
		assert.Equal(t, "Beloved", list[2].Title)

		removed, err := favs.Remove(ctx, "ada", "Emma")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = favs.Remove(ctx, "ada", "Emma")
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = favs.List(ctx, "ghost")
		assert.ErrorIs(t, err, types.ErrUserNotFound)
	})

	t.Run("duplicate inside transaction keeps it usable", func(t *testing.T) {
		tm := trm.New(pool)
		err := tm.Do(ctx, func(ctx context.Context) error {
			if err := favs.Add(ctx, "ada", "Dune"); err == nil {
				t.Fatal("expected duplicate")
			}
			_, err := favs.List(ctx, "ada")
			return err
		})
		require.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		tm := trm.New(pool)
		err := tm.Do(ctx, func(ctx context.Context) error {
			require.NoError(t, favs.Add(ctx, "ada", "Middlemarch"))
			return types.ErrUnexpected
		})
		require.ErrorIs(t, err, types.ErrUnexpected)

		list, err := favs.List(ctx, "ada")
		require.NoError(t, err)
		for _, f := range list {
			assert.NotEqual(t, "Middlemarch", f.Title)
		}
	})

	t.Run("concurrent registration", func(t *testing.T) {
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			taken int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := users.Create(ctx, &models.User{Username: "race", Name: "Race", PasswordHash: "h"})
				if err != nil {
					assert.ErrorIs(t, err, types.ErrUsernameTaken)
					mu.Lock()
					taken++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 7, taken)
	})
}
