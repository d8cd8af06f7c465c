package repo_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/uxpages/internal/model"
	"github.com/xxxsen/uxpages/internal/repo"
	"github.com/xxxsen/uxpages/internal/testutil"
)

func seedHistory(t *testing.T, history *repo.PageHistoryRepo, pageID string, versions int, pinned map[int64]bool) {
	t.Helper()
	for v := int64(0); v < int64(versions); v++ {
		require.NoError(t, history.Create(context.Background(), &model.PageHistoryEntry{
			ID:         uuid.NewString(),
			PageID:     pageID,
			UserID:     "u1",
			Data:       json.RawMessage(`{}`),
			Version:    v,
			Pinned:     pinned[v],
			CreatedAt:  v,
			ModifiedAt: v,
		}))
	}
}

func TestPageHistoryRepoListFilters(t *testing.T) {
	db := testutil.OpenTestDB(t)
	history := repo.NewPageHistoryRepo(db)
	ctx := context.Background()
	pageID := uuid.NewString()
	seedHistory(t, history, pageID, 6, map[int64]bool{1: true, 4: true})

	all, err := history.List(ctx, repo.HistoryFilter{UserID: "u1", PageID: pageID})
	require.NoError(t, err)
	require.Len(t, all, 6)
	require.Equal(t, int64(5), all[0].Version)

	since := int64(4)
	page, err := history.List(ctx, repo.HistoryFilter{UserID: "u1", PageID: pageID, Since: &since, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, int64(3), page[0].Version)
	require.Equal(t, int64(2), page[1].Version)

	pinned, err := history.List(ctx, repo.HistoryFilter{UserID: "u1", PageID: pageID, PinnedOnly: true})
	require.NoError(t, err)
	require.Len(t, pinned, 2)
	require.True(t, pinned[0].Pinned)

	other, err := history.List(ctx, repo.HistoryFilter{UserID: "u2", PageID: pageID})
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestPageHistoryRepoUpdateLabel(t *testing.T) {
	db := testutil.OpenTestDB(t)
	history := repo.NewPageHistoryRepo(db)
	ctx := context.Background()
	pageID := uuid.NewString()
	seedHistory(t, history, pageID, 1, nil)

	entries, err := history.List(ctx, repo.HistoryFilter{UserID: "u1", PageID: pageID})
	require.NoError(t, err)
	entry := entries[0]
	entry.Pinned = true
	entry.Label = "release"
	entry.ModifiedAt = 99
	require.NoError(t, history.UpdateLabel(ctx, &entry))

	stored, err := history.GetByID(ctx, "u1", pageID, entry.ID)
	require.NoError(t, err)
	require.True(t, stored.Pinned)
	require.Equal(t, "release", stored.Label)
}

func TestPageHistoryRepoDeleteOldKeepsPinned(t *testing.T) {
	db := testutil.OpenTestDB(t)
	history := repo.NewPageHistoryRepo(db)
	ctx := context.Background()
	pageID := uuid.NewString()
	seedHistory(t, history, pageID, 10, map[int64]bool{0: true})
	seedHistory(t, history, uuid.NewString(), 2, nil)

	ids, err := history.ListPagesOverLimit(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []string{pageID}, ids)

	deleted, err := history.DeleteOld(ctx, pageID, 3)
	require.NoError(t, err)
	require.Equal(t, int64(6), deleted)

	left, err := history.List(ctx, repo.HistoryFilter{UserID: "u1", PageID: pageID})
	require.NoError(t, err)
	require.Len(t, left, 4)
	require.Equal(t, int64(9), left[0].Version)
	require.Equal(t, int64(0), left[3].Version)
	require.True(t, left[3].Pinned)
}
