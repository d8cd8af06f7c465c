package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/microcosm-cc/bluemonday"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/uxpages/internal/model"
	appErr "github.com/xxxsen/uxpages/internal/pkg/errors"
	"github.com/xxxsen/uxpages/internal/pkg/timeutil"
	"github.com/xxxsen/uxpages/internal/repo"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
	maxPageNameChars    = 255
)

type PageService struct {
	pages   *repo.PageRepo
	history *repo.PageHistoryRepo
	owners  *expirable.LRU[string, string]
	// ownersMu orders owner cache fills against deletes.
	ownersMu sync.RWMutex
	policy   *bluemonday.Policy
}

func NewPageService(pages *repo.PageRepo, history *repo.PageHistoryRepo, cacheSize int, cacheTTL time.Duration) *PageService {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	return &PageService{
		pages:   pages,
		history: history,
		owners:  expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
		policy:  bluemonday.StrictPolicy(),
	}
}

type PageCreateInput struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Metadata  json.RawMessage `json:"metadata"`
}

type PageUpdateInput struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Metadata  json.RawMessage `json:"metadata"`
	Version   int64           `json:"version"`
}

type PageMetadataInput struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project"`
	Name      string          `json:"name"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (s *PageService) ListByProject(ctx context.Context, userID, projectID string) ([]model.Page, error) {
	if projectID == "" {
		return nil, appErr.ErrInvalid
	}
	return s.pages.ListByProject(ctx, userID, projectID)
}

func (s *PageService) Create(ctx context.Context, userID string, input PageCreateInput) (*model.Page, error) {
	name, err := s.cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.ProjectID == "" || !validJSON(input.Data) || !validJSON(input.Metadata) {
		return nil, appErr.ErrInvalid
	}
	id := input.ID
	if id == "" {
		id = newID()
	}
	now := timeutil.NowMilli()
	page := &model.Page{
		ID:         id,
		UserID:     userID,
		ProjectID:  input.ProjectID,
		Name:       name,
		Data:       input.Data,
		Metadata:   input.Metadata,
		Version:    0,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.pages.Create(ctx, page); err != nil {
		return nil, err
	}
	if err := s.snapshot(ctx, page); err != nil {
		return nil, err
	}
	s.owners.Add(page.ID, userID)
	logutil.GetLogger(ctx).Info("page created",
		zap.String("page_id", page.ID),
		zap.String("project_id", page.ProjectID),
		zap.String("user_id", userID),
	)
	return page, nil
}

func (s *PageService) Update(ctx context.Context, userID string, input PageUpdateInput) (*model.Page, error) {
	name, err := s.cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.ID == "" || input.ProjectID == "" || !validJSON(input.Data) || !validJSON(input.Metadata) {
		return nil, appErr.ErrInvalid
	}
	current, err := s.pages.GetByID(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	if current.Version != input.Version {
		return nil, fmt.Errorf("page %s at version %d, got %d: %w", input.ID, current.Version, input.Version, appErr.ErrConflict)
	}
	page := &model.Page{
		ID:         current.ID,
		UserID:     userID,
		ProjectID:  input.ProjectID,
		Name:       name,
		Data:       input.Data,
		Metadata:   input.Metadata,
		CreatedAt:  current.CreatedAt,
		ModifiedAt: timeutil.NowMilli(),
	}
	if err := s.pages.Update(ctx, page, input.Version); err != nil {
		return nil, err
	}
	if err := s.snapshot(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PageService) UpdateMetadata(ctx context.Context, userID string, input PageMetadataInput) (*model.Page, error) {
	name, err := s.cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.ID == "" || input.ProjectID == "" || !validJSON(input.Metadata) {
		return nil, appErr.ErrInvalid
	}
	page := &model.Page{
		ID:         input.ID,
		UserID:     userID,
		ProjectID:  input.ProjectID,
		Name:       name,
		Metadata:   input.Metadata,
		ModifiedAt: timeutil.NowMilli(),
	}
	if err := s.pages.UpdateMetadata(ctx, page); err != nil {
		return nil, err
	}
	return s.pages.GetByID(ctx, userID, input.ID)
}

func (s *PageService) Delete(ctx context.Context, userID, pageID string) error {
	if pageID == "" {
		return appErr.ErrInvalid
	}
	s.ownersMu.Lock()
	err := s.pages.Delete(ctx, userID, pageID, timeutil.NowMilli())
	s.owners.Remove(pageID)
	s.ownersMu.Unlock()
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("page deleted", zap.String("page_id", pageID), zap.String("user_id", userID))
	return nil
}

// ensureOwner fails with ErrNotFound unless the page exists and belongs to
// userID.
func (s *PageService) ensureOwner(ctx context.Context, userID, pageID string) error {
	if owner, ok := s.owners.Get(pageID); ok {
		if owner != userID {
			return appErr.ErrNotFound
		}
		return nil
	}
	s.ownersMu.RLock()
	defer s.ownersMu.RUnlock()
	page, err := s.pages.GetByID(ctx, userID, pageID)
	if err != nil {
		return err
	}
	s.owners.Add(page.ID, page.UserID)
	return nil
}

func (s *PageService) snapshot(ctx context.Context, page *model.Page) error {
	now := timeutil.NowMilli()
	return s.history.Create(ctx, &model.PageHistoryEntry{
		ID:         newID(),
		PageID:     page.ID,
		UserID:     page.UserID,
		Data:       page.Data,
		Version:    page.Version,
		CreatedAt:  now,
		ModifiedAt: now,
	})
}

func (s *PageService) cleanName(name string) (string, error) {
	cleaned := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(name)))
	if cleaned == "" || len([]rune(cleaned)) > maxPageNameChars {
		return "", appErr.ErrInvalid
	}
	return cleaned, nil
}

func validJSON(raw json.RawMessage) bool {
	return len(raw) > 0 && json.Valid(raw)
}
