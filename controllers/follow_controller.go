package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/follow"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/store"
)

// FollowController subscribes the current user to authors.
type FollowController struct {
	store   *store.Store
	follows *follow.Graph
	log     *zap.SugaredLogger
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(s *store.Store, follows *follow.Graph, log *zap.SugaredLogger) *FollowController {
	return &FollowController{store: s, follows: follows, log: log}
}

// Follow subscribes to the author and redirects to their profile.
func (f *FollowController) Follow(ctx *gin.Context) {
	f.change(ctx, f.follows.Follow)
}

// Unfollow drops the subscription and redirects to the author's profile.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	f.change(ctx, f.follows.Unfollow)
}

func (f *FollowController) change(ctx *gin.Context, op func(ctx context.Context, userID, authorID uint) error) {
	author, err := f.store.UserByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		fail(ctx, f.log, err, nil)
		return
	}
	userID, _, _ := middleware.CurrentUser(ctx)
	if err := op(ctx.Request.Context(), userID, author.ID); err != nil {
		fail(ctx, f.log, err, nil)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}
