package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/uxpages/internal/dispatch"
	"github.com/xxxsen/uxpages/internal/pkg/response"
	"github.com/xxxsen/uxpages/internal/validate"
)

var (
	listHistorySchema = validate.Schema{
		validate.Path: {
			validate.F("id", validate.Required, validate.UUID),
		},
		validate.Query: {
			validate.F("max", validate.Int, validate.Min(1)),
			validate.F("since", validate.Int),
			validate.F("pinned", validate.Bool),
		},
	}

	updateHistorySchema = validate.Schema{
		validate.Path: {
			validate.F("id", validate.Required, validate.UUID),
			validate.F("history_id", validate.Required, validate.UUID),
		},
		validate.Body: {
			validate.F("pinned", validate.Required, validate.Bool),
			validate.F("label", validate.String),
		},
	}
)

type HistoryHandler struct {
	dispatcher dispatch.Dispatcher
}

func NewHistoryHandler(dispatcher dispatch.Dispatcher) *HistoryHandler {
	return &HistoryHandler{dispatcher: dispatcher}
}

func (h *HistoryHandler) List(c *gin.Context) {
	params, ok := bindParams(c, listHistorySchema)
	if !ok {
		return
	}
	entries, err := h.dispatcher.Query(c.Request.Context(), newMessage(c, dispatch.TypeListPageHistory, params))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *HistoryHandler) Update(c *gin.Context) {
	params, ok := bindParams(c, updateHistorySchema)
	if !ok {
		return
	}
	entry, err := h.dispatcher.Novelty(c.Request.Context(), newMessage(c, dispatch.TypeUpdatePageHistory, params))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, entry)
}
