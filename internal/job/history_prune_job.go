package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/uxpages/internal/repo"
)

// HistoryPruneJob trims each page's history to its newest maxKeep entries.
// Pinned entries survive.
type HistoryPruneJob struct {
	history *repo.PageHistoryRepo
	maxKeep int
}

func NewHistoryPruneJob(history *repo.PageHistoryRepo, maxKeep int) *HistoryPruneJob {
	return &HistoryPruneJob{history: history, maxKeep: maxKeep}
}

func (j *HistoryPruneJob) Name() string {
	return "page_history_prune"
}

func (j *HistoryPruneJob) Run(ctx context.Context) error {
	if j.history == nil || j.maxKeep <= 0 {
		return nil
	}
	pageIDs, err := j.history.ListPagesOverLimit(ctx, j.maxKeep)
	if err != nil {
		return err
	}
	var total int64
	for _, pageID := range pageIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		deleted, err := j.history.DeleteOld(ctx, pageID, j.maxKeep)
		if err != nil {
			return err
		}
		total += deleted
	}
	if total > 0 {
		logutil.GetLogger(ctx).Info("page history pruned",
			zap.Int("pages", len(pageIDs)),
			zap.Int64("entries", total),
		)
	}
	return nil
}
