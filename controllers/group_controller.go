package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// GroupController lists groups and lets admins manage them.
type GroupController struct {
	store *store.Store
	log   *zap.SugaredLogger
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(s *store.Store, log *zap.SugaredLogger) *GroupController {
	return &GroupController{store: s, log: log}
}

type groupForm struct {
	Title       string `form:"title" json:"title"`
	Slug        string `form:"slug" json:"slug"`
	Description string `form:"description" json:"description"`
}

// List returns all groups ordered by title.
func (g *GroupController) List(ctx *gin.Context) {
	groups, err := g.store.ListGroups(ctx.Request.Context())
	if err != nil {
		fail(ctx, g.log, err, nil)
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// Create adds a group.
func (g *GroupController) Create(ctx *gin.Context) {
	var form groupForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Invalid(ctx, map[string]string{"__all__": "invalid request payload"}, form)
		return
	}
	group := &models.Group{
		Title:       utils.Sanitize(form.Title),
		Slug:        form.Slug,
		Description: utils.Sanitize(form.Description),
	}
	if err := g.store.CreateGroup(ctx.Request.Context(), group); err != nil {
		fail(ctx, g.log, err, form)
		return
	}
	utils.Respond(ctx, http.StatusCreated, utils.CodeOK, "group created", gin.H{"group": group})
}

// Delete removes a group; its posts stay without a group.
func (g *GroupController) Delete(ctx *gin.Context) {
	group, err := g.store.GroupBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		fail(ctx, g.log, err, nil)
		return
	}
	if err := g.store.DeleteGroup(ctx.Request.Context(), group.ID); err != nil {
		fail(ctx, g.log, err, nil)
		return
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
