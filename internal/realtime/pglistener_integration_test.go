//go:build integration

package realtime

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/storage"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("stillup"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, storage.Migrate(ctx, pool))
	return pool
}

func TestPGListenerPublishesSiteChanges(t *testing.T) {
	pool := startPostgres(t)
	hub := NewHub(8, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := hub.Subscribe(ctx, Filter{Table: "sites", Event: model.EventAll})
	defer unsubscribe()

	listener := NewPGListener(pool, "sites_changes", hub, testLogger)
	done := make(chan error, 1)
	go func() { done <- listener.Start(ctx) }()

	users := storage.NewUserStorage(pool)
	sites := storage.NewSiteStorage(pool)
	owner, err := users.CreateUser(ctx, uuid.NewString()+"@example.com", "hash")
	require.NoError(t, err)

	site := &model.Site{ID: uuid.NewString(), URL: "https://example.com", Status: model.StatusPending, UserID: owner.ID}

	// The listener connects asynchronously; keep inserting until the first
	// notification arrives.
	require.Eventually(t, func() bool {
		site.ID = uuid.NewString()
		require.NoError(t, sites.Save(ctx, site))
		select {
		case evt := <-events:
			return evt.Type == model.EventInsert && evt.Record != nil
		case <-time.After(500 * time.Millisecond):
			return false
		}
	}, 20*time.Second, 100*time.Millisecond)

	require.NoError(t, sites.Delete(ctx, site.ID, owner.ID))
	for {
		select {
		case evt := <-events:
			if evt.Type != model.EventDelete {
				continue
			}
			require.NotNil(t, evt.OldRecord)
			assert.Equal(t, site.ID, evt.OldRecord.ID)
			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
			return
		case <-time.After(10 * time.Second):
			t.Fatal("no delete notification")
		}
	}
}

func TestPGListenerLongURL(t *testing.T) {
	pool := startPostgres(t)
	hub := NewHub(8, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := hub.Subscribe(ctx, Filter{Table: "sites", Event: model.EventInsert})
	defer unsubscribe()

	listener := NewPGListener(pool, "sites_changes", hub, testLogger)
	go func() { _ = listener.Start(ctx) }()

	users := storage.NewUserStorage(pool)
	sites := storage.NewSiteStorage(pool)
	owner, err := users.CreateUser(ctx, uuid.NewString()+"@example.com", "hash")
	require.NoError(t, err)

	// well past the 8000 byte NOTIFY payload limit
	longURL := "https://example.com/" + strings.Repeat("a", 10000)

	var saved string
	require.Eventually(t, func() bool {
		site := &model.Site{ID: uuid.NewString(), URL: longURL, Status: model.StatusPending, UserID: owner.ID}
		require.NoError(t, sites.Save(ctx, site))
		saved = site.ID
		select {
		case evt := <-events:
			require.NotNil(t, evt.Record)
			return evt.Record.ID == saved
		case <-time.After(500 * time.Millisecond):
			return false
		}
	}, 20*time.Second, 100*time.Millisecond)

	got, err := sites.FindByID(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, longURL, got.URL)
}
