package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/journal"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewSQLRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestCreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := "backend: Banner not found"

	entries := []model.JournalEntry{
		{ID: "1", Feature: "banners", Action: "delete", EntityID: "ban_1", Result: "reconciled", CreatedAt: base},
		{ID: "2", Feature: "banners", Action: "delete", EntityID: "ban_2", Result: "reverted", Error: &msg, CreatedAt: base.Add(time.Minute)},
		{ID: "3", Feature: "orders", Action: "status", EntityID: "ord_1", Result: "reconciled", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	got, err := repo.FindAll(ctx, &journal.Filters{Feature: "banners"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	require.NotNil(t, got[0].Error)
	assert.Equal(t, msg, *got[0].Error)
	assert.Nil(t, got[1].Error)

	got, err = repo.FindAll(ctx, &journal.Filters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got, err = repo.FindAll(ctx, &journal.Filters{EntityID: "ord_1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecorderSkipsAppliedSteps(t *testing.T) {
	repo := newRepo(t)
	rec := journal.NewRecorder(repo, logger.NewNop())
	ctx := context.Background()

	rec.Observe(ctx, optimistic.Outcome{Feature: "featured", Action: "add", EntityID: "p1", Result: optimistic.Applied})
	rec.Observe(ctx, optimistic.Outcome{Feature: "featured", Action: "add", EntityID: "p1", Result: optimistic.Reverted, Err: errors.New("boom")})

	got, err := rec.Recent(ctx, &journal.Filters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "reverted", got[0].Result)
	require.NotNil(t, got[0].Error)
	assert.Equal(t, "boom", *got[0].Error)
	assert.NotEmpty(t, got[0].ID)
}
