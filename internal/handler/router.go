package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/xxxsen/uxpages/internal/middleware"
)

type RouterDeps struct {
	Pages     *PageHandler
	History   *HistoryHandler
	JWTSecret []byte
	// CreateWindow limits page creation per user; zero disables it.
	CreateWindow time.Duration
}

// RegisterRoutes mounts the page routes on a group rooted at /api.
func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	// keeps integers apart from floats in request bodies
	binding.EnableDecoderUseNumber = true

	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/pages", deps.Pages.List)
	authGroup.POST("/pages", middleware.RateLimit(deps.CreateWindow), deps.Pages.Create)
	authGroup.PUT("/pages/:id", deps.Pages.Update)
	authGroup.PUT("/pages/:id/metadata", deps.Pages.UpdateMetadata)
	authGroup.DELETE("/pages/:id", deps.Pages.Delete)

	authGroup.GET("/pages/:id/history", deps.History.List)
	authGroup.PUT("/pages/:id/history/:history_id", deps.History.Update)
}
