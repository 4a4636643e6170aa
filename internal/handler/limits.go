package handler

import (
	"net/http"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/limiter"
	"github.com/gin-gonic/gin"
)

// Limits lists the per-action request budgets.
func Limits(c *gin.Context) {
	limits := make(map[string]gin.H, len(limiter.DefaultLimits))
	for action, cfg := range limiter.DefaultLimits {
		limits[action] = gin.H{
			"limit":          cfg.Limit,
			"window_seconds": int(cfg.Window.Seconds()),
		}
	}
	c.JSON(http.StatusOK, limits)
}
