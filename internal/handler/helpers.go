package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/uxpages/internal/dispatch"
	"github.com/xxxsen/uxpages/internal/middleware"
	"github.com/xxxsen/uxpages/internal/pkg/errcode"
	appErr "github.com/xxxsen/uxpages/internal/pkg/errors"
	"github.com/xxxsen/uxpages/internal/pkg/response"
	"github.com/xxxsen/uxpages/internal/validate"
)

const maxBodyBytes = 8 << 20

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

// bindParams validates the request against schema. On failure it writes the
// 400 response and returns false.
func bindParams(c *gin.Context, schema validate.Schema) (validate.Params, bool) {
	in := validate.Input{
		Path:  make(map[string]string, len(c.Params)),
		Query: c.Request.URL.Query(),
	}
	for _, p := range c.Params {
		in.Path[p.Key] = p.Value
	}
	if schema.HasBody() {
		body, err := decodeBody(c)
		if err != nil {
			writeValidationError(c, validate.MalformedBody(err.Error()))
			return nil, false
		}
		in.Body = body
	}
	params, err := schema.Validate(in)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			writeValidationError(c, verr)
			return nil, false
		}
		handleError(c, err)
		return nil, false
	}
	return params, true
}

func decodeBody(c *gin.Context) (map[string]interface{}, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, errors.New("body required")
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var body map[string]interface{}
	if err := c.ShouldBindBodyWithJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("body too large")
		}
		if len(rawBody(c)) == 0 {
			return nil, errors.New("body required")
		}
		return nil, errors.New("body must be a json object")
	}
	// the json binding stops after the first value
	if body == nil || !json.Valid(rawBody(c)) {
		return nil, errors.New("body must be a json object")
	}
	return body, nil
}

func rawBody(c *gin.Context) []byte {
	raw, _ := c.Get(gin.BodyBytesKey)
	data, _ := raw.([]byte)
	return data
}

func writeValidationError(c *gin.Context, verr *validate.Error) {
	logutil.GetLogger(c.Request.Context()).Debug("request rejected",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(verr),
	)
	response.ErrorWithData(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request", verr.Fields)
}

func newMessage(c *gin.Context, typ string, params validate.Params) dispatch.Message {
	return dispatch.Message{
		Type:   typ,
		User:   getUserID(c),
		Params: params,
	}
}

type identified interface {
	GetID() string
}

// resultID returns the id carried by a dispatcher result, falling back to
// the requested one.
func resultID(result interface{}, params validate.Params) string {
	switch v := result.(type) {
	case identified:
		return v.GetID()
	case map[string]interface{}:
		if id, ok := v["id"].(string); ok {
			return id
		}
	}
	return params.String("id")
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		logger.Info("request failed")
		response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		logger.Info("request failed")
		response.Error(c, http.StatusForbidden, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		logger.Info("request failed")
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		logger.Info("request failed")
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrConflict):
		logger.Info("request failed")
		response.Error(c, http.StatusConflict, errcode.ErrConflict, "conflict")
	default:
		logger.Error("request failed")
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}
