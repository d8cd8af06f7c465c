package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/uxpages/internal/dispatch"
	appErr "github.com/xxxsen/uxpages/internal/pkg/errors"
)

// Register binds the page message types to the service.
func (s *PageService) Register(bus *dispatch.Bus) {
	bus.RegisterQuery(dispatch.TypeListPagesByProject, s.handleListByProject)
	bus.RegisterQuery(dispatch.TypeListPageHistory, s.handleListHistory)
	bus.RegisterNovelty(dispatch.TypeCreatePage, s.handleCreate)
	bus.RegisterNovelty(dispatch.TypeUpdatePage, s.handleUpdate)
	bus.RegisterNovelty(dispatch.TypeUpdatePageMetadata, s.handleUpdateMetadata)
	bus.RegisterNovelty(dispatch.TypeDeletePage, s.handleDelete)
	bus.RegisterNovelty(dispatch.TypeUpdatePageHistory, s.handleUpdateHistory)
}

func decode(msg dispatch.Message, dst interface{}) error {
	if msg.User == "" {
		return appErr.ErrUnauthorized
	}
	if err := msg.Decode(dst); err != nil {
		return fmt.Errorf("%v: %w", err, appErr.ErrInvalid)
	}
	return nil
}

func (s *PageService) handleListByProject(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in struct {
		ProjectID string `json:"project"`
	}
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	return s.ListByProject(ctx, msg.User, in.ProjectID)
}

func (s *PageService) handleListHistory(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in HistoryQuery
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	return s.ListHistory(ctx, msg.User, in)
}

func (s *PageService) handleCreate(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in PageCreateInput
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	return s.Create(ctx, msg.User, in)
}

func (s *PageService) handleUpdate(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in PageUpdateInput
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	return s.Update(ctx, msg.User, in)
}

func (s *PageService) handleUpdateMetadata(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in PageMetadataInput
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	return s.UpdateMetadata(ctx, msg.User, in)
}

func (s *PageService) handleDelete(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	if err := s.Delete(ctx, msg.User, in.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *PageService) handleUpdateHistory(ctx context.Context, msg dispatch.Message) (interface{}, error) {
	var in HistoryUpdateInput
	if err := decode(msg, &in); err != nil {
		return nil, err
	}
	return s.UpdateHistory(ctx, msg.User, in)
}
