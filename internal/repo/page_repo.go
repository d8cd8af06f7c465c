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

var pageColumns = []string{"id", "user_id", "project_id", "name", "data", "metadata", "version", "created_at", "modified_at"}

type PageRepo struct {
	db *DB
}

func NewPageRepo(db *DB) *PageRepo {
	return &PageRepo{db: db}
}

func (r *PageRepo) Create(ctx context.Context, page *model.Page) error {
	data := map[string]interface{}{
		"id":          page.ID,
		"user_id":     page.UserID,
		"project_id":  page.ProjectID,
		"name":        page.Name,
		"data":        string(page.Data),
		"metadata":    string(page.Metadata),
		"version":     page.Version,
		"created_at":  page.CreatedAt,
		"modified_at": page.ModifiedAt,
		"deleted_at":  0,
	}
	sqlStr, args, err := builder.BuildInsert("pages", []map[string]interface{}{data})
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

func (r *PageRepo) GetByID(ctx context.Context, userID, pageID string) (*model.Page, error) {
	where := map[string]interface{}{
		"id":         pageID,
		"user_id":    userID,
		"deleted_at": 0,
	}
	sqlStr, args, err := builder.BuildSelect("pages", where, pageColumns)
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
	return scanPage(rows)
}

func (r *PageRepo) ListByProject(ctx context.Context, userID, projectID string) ([]model.Page, error) {
	where := map[string]interface{}{
		"user_id":    userID,
		"project_id": projectID,
		"deleted_at": 0,
		"_orderby":   "created_at asc, id asc",
	}
	sqlStr, args, err := builder.BuildSelect("pages", where, pageColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	pages := make([]model.Page, 0)
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}

// Update stores page content only if the stored version still equals
// expectedVersion, and bumps the version by one.
func (r *PageRepo) Update(ctx context.Context, page *model.Page, expectedVersion int64) error {
	where := map[string]interface{}{
		"id":         page.ID,
		"user_id":    page.UserID,
		"deleted_at": 0,
		"version":    expectedVersion,
	}
	update := map[string]interface{}{
		"project_id":  page.ProjectID,
		"name":        page.Name,
		"data":        string(page.Data),
		"metadata":    string(page.Metadata),
		"version":     expectedVersion + 1,
		"modified_at": page.ModifiedAt,
	}
	affected, err := r.exec(ctx, where, update)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, page.UserID, page.ID); err != nil {
			return err
		}
		return appErr.ErrConflict
	}
	page.Version = expectedVersion + 1
	return nil
}

func (r *PageRepo) UpdateMetadata(ctx context.Context, page *model.Page) error {
	where := map[string]interface{}{
		"id":         page.ID,
		"user_id":    page.UserID,
		"deleted_at": 0,
	}
	update := map[string]interface{}{
		"project_id":  page.ProjectID,
		"name":        page.Name,
		"metadata":    string(page.Metadata),
		"modified_at": page.ModifiedAt,
	}
	affected, err := r.exec(ctx, where, update)
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *PageRepo) Delete(ctx context.Context, userID, pageID string, now int64) error {
	where := map[string]interface{}{
		"id":         pageID,
		"user_id":    userID,
		"deleted_at": 0,
	}
	update := map[string]interface{}{
		"deleted_at":  now,
		"modified_at": now,
	}
	affected, err := r.exec(ctx, where, update)
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *PageRepo) exec(ctx context.Context, where, update map[string]interface{}) (int64, error) {
	sqlStr, args, err := builder.BuildUpdate("pages", where, update)
	if err != nil {
		return 0, err
	}
	sqlStr, args = r.db.finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanPage(rows *sql.Rows) (*model.Page, error) {
	var (
		page     model.Page
		data     string
		metadata string
	)
	if err := rows.Scan(&page.ID, &page.UserID, &page.ProjectID, &page.Name, &data, &metadata, &page.Version, &page.CreatedAt, &page.ModifiedAt); err != nil {
		return nil, err
	}
	page.Data = json.RawMessage(data)
	page.Metadata = json.RawMessage(metadata)
	return &page, nil
}
