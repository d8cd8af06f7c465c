package service

import (
	"context"

	"github.com/xxxsen/uxpages/internal/model"
	appErr "github.com/xxxsen/uxpages/internal/pkg/errors"
	"github.com/xxxsen/uxpages/internal/pkg/timeutil"
	"github.com/xxxsen/uxpages/internal/repo"
)

type HistoryQuery struct {
	PageID string `json:"id"`
	Max    *int64 `json:"max"`
	Since  *int64 `json:"since"`
	Pinned *bool  `json:"pinned"`
}

type HistoryUpdateInput struct {
	PageID  string  `json:"id"`
	EntryID string  `json:"history_id"`
	Pinned  bool    `json:"pinned"`
	Label   *string `json:"label"`
}

func (s *PageService) ListHistory(ctx context.Context, userID string, query HistoryQuery) ([]model.PageHistoryEntry, error) {
	if query.PageID == "" {
		return nil, appErr.ErrInvalid
	}
	if err := s.ensureOwner(ctx, userID, query.PageID); err != nil {
		return nil, err
	}
	limit := int64(defaultHistoryLimit)
	if query.Max != nil {
		if *query.Max <= 0 {
			return nil, appErr.ErrInvalid
		}
		limit = *query.Max
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.history.List(ctx, repo.HistoryFilter{
		UserID:     userID,
		PageID:     query.PageID,
		Since:      query.Since,
		PinnedOnly: query.Pinned != nil && *query.Pinned,
		Limit:      uint(limit),
	})
}

func (s *PageService) UpdateHistory(ctx context.Context, userID string, input HistoryUpdateInput) (*model.PageHistoryEntry, error) {
	if input.PageID == "" || input.EntryID == "" {
		return nil, appErr.ErrInvalid
	}
	if err := s.ensureOwner(ctx, userID, input.PageID); err != nil {
		return nil, err
	}
	entry, err := s.history.GetByID(ctx, userID, input.PageID, input.EntryID)
	if err != nil {
		return nil, err
	}
	entry.Pinned = input.Pinned
	if input.Label != nil {
		entry.Label = *input.Label
	}
	entry.ModifiedAt = timeutil.NowMilli()
	if err := s.history.UpdateLabel(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
