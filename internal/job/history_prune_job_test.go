package job

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

func TestHistoryPruneJob(t *testing.T) {
	db := testutil.OpenTestDB(t)
	history := repo.NewPageHistoryRepo(db)
	ctx := context.Background()
	pageID := uuid.NewString()
	for v := int64(0); v < 8; v++ {
		require.NoError(t, history.Create(ctx, &model.PageHistoryEntry{
			ID:      uuid.NewString(),
			PageID:  pageID,
			UserID:  "u1",
			Data:    json.RawMessage(`{}`),
			Version: v,
			Pinned:  v == 1,
		}))
	}

	job := NewHistoryPruneJob(history, 2)
	require.Equal(t, "page_history_prune", job.Name())
	require.NoError(t, job.Run(ctx))

	left, err := history.List(ctx, repo.HistoryFilter{UserID: "u1", PageID: pageID})
	require.NoError(t, err)
	versions := make([]int64, 0, len(left))
	for _, e := range left {
		versions = append(versions, e.Version)
	}
	require.Equal(t, []int64{7, 6, 1}, versions)

	require.NoError(t, job.Run(ctx))
}

func TestHistoryPruneJobDisabled(t *testing.T) {
	require.NoError(t, NewHistoryPruneJob(nil, 10).Run(context.Background()))
}
