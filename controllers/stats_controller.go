package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// StatsController reports entity counts.
type StatsController struct {
	store *store.Store
	log   *zap.SugaredLogger
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(s *store.Store, log *zap.SugaredLogger) *StatsController {
	return &StatsController{store: s, log: log}
}

// GetStats returns how many users, groups, posts, comments and follows exist.
func (s *StatsController) GetStats(ctx *gin.Context) {
	c := ctx.Request.Context()
	counters := []struct {
		key   string
		count func(context.Context) (int64, error)
	}{
		{"user_count", s.store.CountUsers},
		{"group_count", s.store.CountGroups},
		{"post_count", s.store.CountPosts},
		{"comment_count", s.store.CountComments},
		{"follow_count", s.store.CountFollows},
	}
	out := gin.H{}
	for _, counter := range counters {
		n, err := counter.count(c)
		if err != nil {
			// Fallback to 0 instead of failing the whole endpoint
			s.log.Warnw("stats count failed", "key", counter.key, "err", err)
			n = 0
		}
		out[counter.key] = n
	}
	utils.Success(ctx, out)
}
