package handler

import (
	"net/http"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/batch"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/limiter"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/middleware"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/scheduler"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/session"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the API is built from. Limiter and
// Scheduler may be nil.
type Dependencies struct {
	Flows      Flows
	Expansions ExpansionStore
	Favorites  store.FavoriteStore
	Sessions   *session.Registry
	Runner     *batch.Runner
	Limiter    *limiter.Limiter
	Scheduler  *scheduler.PrefetchScheduler
}

func NewRouter(d Dependencies) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/scheduler/status", func(c *gin.Context) {
		if d.Scheduler != nil {
			c.JSON(http.StatusOK, d.Scheduler.Status())
		} else {
			c.JSON(http.StatusOK, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	sessionHandler := NewSessionHandler(d.Sessions)
	storyHandler := NewStoryHandler(d.Flows, d.Sessions)
	exportHandler := NewExportHandler()
	wordHandler := NewWordHandler(d.Flows, d.Expansions, d.Sessions)
	expansionHandler := NewExpansionHandler(d.Flows, d.Expansions, d.Runner)
	favoritesHandler := NewFavoritesHandler(d.Favorites)

	limit := func(action string) gin.HandlerFunc {
		return middleware.RateLimit(d.Limiter, action)
	}

	api := r.Group("/api")
	{
		api.GET("/limits", Limits)

		// Sessions
		api.POST("/sessions", sessionHandler.Create)
		api.GET("/sessions/:id", sessionHandler.Get)
		api.GET("/sessions/:id/story", sessionHandler.CurrentStory)
		api.POST("/sessions/:id/gloss", limit(limiter.ActionGloss), wordHandler.Gloss)
		api.POST("/sessions/:id/prefetch", limit(limiter.ActionGloss), wordHandler.Prefetch)
		api.POST("/sessions/:id/expand", limit(limiter.ActionExpand), wordHandler.Expand)

		// Stories
		api.POST("/stories", limit(limiter.ActionStory), storyHandler.Generate)
		api.POST("/stories/illustration", limit(limiter.ActionIllustration), storyHandler.Illustration)
		api.POST("/stories/import", exportHandler.Import)
		api.POST("/stories/export", exportHandler.Export)

		// Saved expansions
		api.GET("/expansions", expansionHandler.List)
		api.POST("/expansions", expansionHandler.Save)
		api.PUT("/expansions/:id", expansionHandler.Update)
		api.GET("/expansions/search", expansionHandler.Search)
		api.GET("/expansions/letters", expansionHandler.Letters)
		api.GET("/expansions/letters/:letter", expansionHandler.ByLetter)
		api.POST("/expansions/expand", limit(limiter.ActionExpand), expansionHandler.Expand)
		api.POST("/expansions/batch", limit(limiter.ActionExpand), expansionHandler.StartBatch)
		api.GET("/expansions/batch/:jobId", expansionHandler.BatchStatus)
		api.DELETE("/expansions/batch/:jobId", expansionHandler.StopBatch)

		// Favorites
		api.GET("/favorites", favoritesHandler.List)
		api.POST("/favorites", favoritesHandler.Create)
		api.GET("/favorites/:id", favoritesHandler.Get)
		api.DELETE("/favorites/:id", favoritesHandler.Delete)
	}

	return r
}
