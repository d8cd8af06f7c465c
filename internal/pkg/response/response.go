package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Failure is the body written for rejected requests.
type Failure struct {
	Code uint32      `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, location string, data interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, code uint32, message string) {
	c.AbortWithStatusJSON(status, Failure{Code: code, Msg: message})
}

func ErrorWithData(c *gin.Context, status int, code uint32, message string, data interface{}) {
	c.AbortWithStatusJSON(status, Failure{Code: code, Msg: message, Data: data})
}
