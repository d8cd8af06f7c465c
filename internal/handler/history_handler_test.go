package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/uxpages/internal/dispatch"
	"github.com/xxxsen/uxpages/internal/model"
)

func TestListHistoryCoercesQuery(t *testing.T) {
	d := &fakeDispatcher{result: []model.PageHistoryEntry{}}
	router := setupRouter(t, d)
	resp := doRequest(t, router, http.MethodGet, "/api/pages/"+pageA+"/history?max=20&since=7&pinned=true", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())

	got := d.last(t)
	require.Equal(t, dispatch.KindQuery, got.kind)
	require.Equal(t, dispatch.TypeListPageHistory, got.msg.Type)
	require.Equal(t, pageA, got.msg.Params["id"])
	require.Equal(t, int64(20), got.msg.Params["max"])
	require.Equal(t, int64(7), got.msg.Params["since"])
	require.Equal(t, true, got.msg.Params["pinned"])
}

func TestListHistoryOptionalParams(t *testing.T) {
	d := &fakeDispatcher{result: []model.PageHistoryEntry{}}
	router := setupRouter(t, d)
	resp := doRequest(t, router, http.MethodGet, "/api/pages/"+pageA+"/history", "")
	require.Equal(t, http.StatusOK, resp.Code)

	got := d.last(t)
	require.NotContains(t, got.msg.Params, "max")
	require.NotContains(t, got.msg.Params, "since")
	require.NotContains(t, got.msg.Params, "pinned")
}

func TestUpdateHistoryEntry(t *testing.T) {
	d := &fakeDispatcher{result: &model.PageHistoryEntry{ID: pageB, PageID: pageA, Pinned: true}}
	router := setupRouter(t, d)
	resp := doRequest(t, router, http.MethodPut, "/api/pages/"+pageA+"/history/"+pageB, `{"pinned":true,"label":"v1"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	got := d.last(t)
	require.Equal(t, dispatch.KindNovelty, got.kind)
	require.Equal(t, dispatch.TypeUpdatePageHistory, got.msg.Type)
	require.Equal(t, pageA, got.msg.Params["id"])
	require.Equal(t, pageB, got.msg.Params["history_id"])
	require.Equal(t, true, got.msg.Params["pinned"])
	require.Equal(t, "v1", got.msg.Params["label"])
}
