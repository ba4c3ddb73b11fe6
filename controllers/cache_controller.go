package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/pagecache"
	"github.com/cppla/yatube/utils"
)

// CacheController exposes page cache maintenance to admins.
type CacheController struct {
	pages pagecache.Store
	log   *zap.SugaredLogger
}

// NewCacheController creates a new CacheController instance.
func NewCacheController(pages pagecache.Store, log *zap.SugaredLogger) *CacheController {
	return &CacheController{pages: pages, log: log}
}

// Clear drops every cached page.
func (c *CacheController) Clear(ctx *gin.Context) {
	if err := c.pages.Clear(ctx.Request.Context()); err != nil {
		fail(ctx, c.log, err, nil)
		return
	}
	c.log.Infow("page cache cleared", "by", ctx.GetString(middleware.ContextUsernameKey))
	utils.Success(ctx, gin.H{"message": "cache cleared"})
}
