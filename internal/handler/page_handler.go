package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/uxpages/internal/dispatch"
	"github.com/xxxsen/uxpages/internal/pkg/response"
	"github.com/xxxsen/uxpages/internal/validate"
)

const pagesLocationPrefix = "/api/pages/"

var (
	listPagesSchema = validate.Schema{
		validate.Query: {
			validate.F("project", validate.Required, validate.UUID),
		},
	}

	createPageSchema = validate.Schema{
		validate.Body: {
			validate.F("id", validate.UUID),
			validate.F("data", validate.Required, validate.Present),
			validate.F("metadata", validate.Required, validate.Present),
			validate.F("project", validate.Required, validate.UUID),
			validate.F("name", validate.Required, validate.String),
		},
	}

	updatePageSchema = validate.Schema{
		validate.Path: {
			validate.F("id", validate.Required, validate.UUID),
		},
		validate.Body: {
			validate.F("id", validate.UUID),
			validate.F("data", validate.Required, validate.Present),
			validate.F("metadata", validate.Required, validate.Present),
			validate.F("project", validate.Required, validate.UUID),
			validate.F("name", validate.Required, validate.String),
			validate.F("version", validate.Required, validate.Int, validate.Min(0)),
		},
	}

	updatePageMetadataSchema = validate.Schema{
		validate.Path: {
			validate.F("id", validate.Required, validate.UUID),
		},
		validate.Body: {
			validate.F("id", validate.UUID),
			validate.F("metadata", validate.Required, validate.Present),
			validate.F("project", validate.Required, validate.UUID),
			validate.F("name", validate.Required, validate.String),
		},
	}

	deletePageSchema = validate.Schema{
		validate.Path: {
			validate.F("id", validate.Required, validate.UUID),
		},
	}
)

type PageHandler struct {
	dispatcher dispatch.Dispatcher
}

func NewPageHandler(dispatcher dispatch.Dispatcher) *PageHandler {
	return &PageHandler{dispatcher: dispatcher}
}

func (h *PageHandler) List(c *gin.Context) {
	params, ok := bindParams(c, listPagesSchema)
	if !ok {
		return
	}
	pages, err := h.dispatcher.Query(c.Request.Context(), newMessage(c, dispatch.TypeListPagesByProject, params))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, pages)
}

func (h *PageHandler) Create(c *gin.Context) {
	params, ok := bindParams(c, createPageSchema)
	if !ok {
		return
	}
	page, err := h.dispatcher.Novelty(c.Request.Context(), newMessage(c, dispatch.TypeCreatePage, params))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, pagesLocationPrefix+resultID(page, params), page)
}

func (h *PageHandler) Update(c *gin.Context) {
	params, ok := bindParams(c, updatePageSchema)
	if !ok {
		return
	}
	page, err := h.dispatcher.Novelty(c.Request.Context(), newMessage(c, dispatch.TypeUpdatePage, params))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, page)
}

func (h *PageHandler) UpdateMetadata(c *gin.Context) {
	params, ok := bindParams(c, updatePageMetadataSchema)
	if !ok {
		return
	}
	page, err := h.dispatcher.Novelty(c.Request.Context(), newMessage(c, dispatch.TypeUpdatePageMetadata, params))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, page)
}

func (h *PageHandler) Delete(c *gin.Context) {
	params, ok := bindParams(c, deletePageSchema)
	if !ok {
		return
	}
	if _, err := h.dispatcher.Novelty(c.Request.Context(), newMessage(c, dispatch.TypeDeletePage, params)); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}
