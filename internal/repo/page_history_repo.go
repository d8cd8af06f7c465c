package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/uxpages/internal/model"
	"github.com/xxxsen/uxpages/internal/pkg/dbutil"
	appErr "github.com/xxxsen/uxpages/internal/pkg/errors"
)

var historyColumns = []string{"id", "page_id", "user_id", "data", "version", "pinned", "label", "created_at", "modified_at"}

type PageHistoryRepo struct {
	db *DB
}

func NewPageHistoryRepo(db *DB) *PageHistoryRepo {
	return &PageHistoryRepo{db: db}
}

// HistoryFilter selects entries of one page. Since, when set, keeps only
// versions strictly lower than it.
type HistoryFilter struct {
	UserID     string
	PageID     string
	Since      *int64
	PinnedOnly bool
	Limit      uint
}

func (r *PageHistoryRepo) Create(ctx context.Context, entry *model.PageHistoryEntry) error {
	data := map[string]interface{}{
		"id":          entry.ID,
		"page_id":     entry.PageID,
		"user_id":     entry.UserID,
		"data":        string(entry.Data),
		"version":     entry.Version,
		"pinned":      boolToInt(entry.Pinned),
		"label":       entry.Label,
		"created_at":  entry.CreatedAt,
		"modified_at": entry.ModifiedAt,
	}
	sqlStr, args, err := builder.BuildInsert("page_history", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = r.db.finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *PageHistoryRepo) List(ctx context.Context, filter HistoryFilter) ([]model.PageHistoryEntry, error) {
	where := map[string]interface{}{
		"user_id":  filter.UserID,
		"page_id":  filter.PageID,
		"_orderby": "version desc",
	}
	if filter.Since != nil {
		where["version <"] = *filter.Since
	}
	if filter.PinnedOnly {
		where["pinned"] = 1
	}
	if filter.Limit > 0 {
		where["_limit"] = []uint{0, filter.Limit}
	}
	sqlStr, args, err := builder.BuildSelect("page_history", where, historyColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	entries := make([]model.PageHistoryEntry, 0)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *PageHistoryRepo) GetByID(ctx context.Context, userID, pageID, entryID string) (*model.PageHistoryEntry, error) {
	where := map[string]interface{}{
		"id":      entryID,
		"page_id": pageID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildSelect("page_history", where, historyColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, appErr.ErrNotFound
	}
	return scanHistory(rows)
}

func (r *PageHistoryRepo) UpdateLabel(ctx context.Context, entry *model.PageHistoryEntry) error {
	where := map[string]interface{}{
		"id":      entry.ID,
		"page_id": entry.PageID,
		"user_id": entry.UserID,
	}
	update := map[string]interface{}{
		"pinned":      boolToInt(entry.Pinned),
		"label":       entry.Label,
		"modified_at": entry.ModifiedAt,
	}
	sqlStr, args, err := builder.BuildUpdate("page_history", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = r.db.finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// ListPagesOverLimit returns pages holding more than keep entries.
func (r *PageHistoryRepo) ListPagesOverLimit(ctx context.Context, keep int) ([]string, error) {
	sqlStr, args := r.db.finalize(
		`SELECT page_id FROM page_history GROUP BY page_id HAVING COUNT(*) > ?`,
		[]interface{}{keep},
	)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteOld removes unpinned entries of a page outside its newest keep
// versions. Pinned entries are never removed.
func (r *PageHistoryRepo) DeleteOld(ctx context.Context, pageID string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	sqlStr, args := r.db.finalize(`
		DELETE FROM page_history
		WHERE page_id = ?
		  AND pinned = 0
		  AND id NOT IN (
			SELECT id FROM (
				SELECT id
				FROM page_history
				WHERE page_id = ?
				ORDER BY version DESC
				LIMIT ?
			) AS newest
		  )
	`, []interface{}{pageID, pageID, keep})
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanHistory(rows *sql.Rows) (*model.PageHistoryEntry, error) {
	var (
		entry  model.PageHistoryEntry
		data   string
		pinned int
	)
	if err := rows.Scan(&entry.ID, &entry.PageID, &entry.UserID, &data, &entry.Version, &pinned, &entry.Label, &entry.CreatedAt, &entry.ModifiedAt); err != nil {
		return nil, err
	}
	entry.Data = json.RawMessage(data)
	entry.Pinned = pinned != 0
	return &entry, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
