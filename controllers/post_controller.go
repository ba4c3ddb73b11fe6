package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/feed"
	"github.com/cppla/yatube/follow"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/paginator"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// PostController serves the feeds and post create/edit/comment/delete pages.
type PostController struct {
	store    *store.Store
	feeds    *feed.Assembler
	follows  *follow.Graph
	media    utils.MediaStore
	pageSize int
	isAdmin  func(username string) bool
	log      *zap.SugaredLogger
}

// NewPostController creates a new PostController instance.
func NewPostController(s *store.Store, feeds *feed.Assembler, follows *follow.Graph, media utils.MediaStore,
	pageSize int, isAdmin func(string) bool, log *zap.SugaredLogger) *PostController {
	return &PostController{
		store:    s,
		feeds:    feeds,
		follows:  follows,
		media:    media,
		pageSize: pageSize,
		isAdmin:  isAdmin,
		log:      log,
	}
}

// postForm is the create/edit payload. Group 0 means no group.
type postForm struct {
	Text  string `form:"text" json:"text"`
	Group uint   `form:"group" json:"group"`
	Image string `form:"-" json:"image,omitempty"`
}

type commentForm struct {
	Text string `form:"text" json:"text"`
}

func (p *PostController) page(ctx *gin.Context, seq paginator.Sequence[models.Post]) (*paginator.Page[models.Post], bool) {
	page, err := paginator.Paginate(ctx.Request.Context(), seq, ctx.Query("page"), p.pageSize)
	if err != nil {
		fail(ctx, p.log, err, nil)
		return nil, false
	}
	return page, true
}

// Index renders the global feed.
func (p *PostController) Index(ctx *gin.Context) {
	page, ok := p.page(ctx, p.feeds.Global())
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"page": page})
}

// GroupPosts renders the feed of one group.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	group, seq, err := p.feeds.Group(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	page, ok := p.page(ctx, seq)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"group": group, "page": page})
}

// Profile renders an author's posts and whether the viewer follows them.
func (p *PostController) Profile(ctx *gin.Context) {
	author, seq, err := p.feeds.Profile(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	page, ok := p.page(ctx, seq)
	if !ok {
		return
	}
	viewerID, _, _ := middleware.CurrentUser(ctx)
	following, err := p.follows.IsFollowing(ctx.Request.Context(), viewerID, author.ID)
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	utils.Success(ctx, gin.H{
		"author":     author,
		"post_count": page.Pagination.Total,
		"following":  following,
		"page":       page,
	})
}

// FollowIndex renders posts by the authors the current user follows.
func (p *PostController) FollowIndex(ctx *gin.Context) {
	userID, _, _ := middleware.CurrentUser(ctx)
	page, ok := p.page(ctx, p.feeds.Followed(userID))
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"page": page})
}

// Detail renders a post with its comments and an empty comment form.
func (p *PostController) Detail(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, "post")
		return
	}
	post, err := p.store.PostByID(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	utils.Success(ctx, gin.H{
		"post":       post,
		"post_count": p.authorPostCount(ctx, post.AuthorID),
		"comments":   post.Comments,
		"form":       commentForm{},
	})
}

func (p *PostController) authorPostCount(ctx *gin.Context, authorID uint) int64 {
	n, err := p.store.Posts(store.PostFilter{AuthorID: authorID}).Count(ctx.Request.Context())
	if err != nil {
		p.log.Warnw("count author posts", "author_id", authorID, "err", err)
	}
	return n
}

// NewPostForm returns an empty form and the groups to choose from.
func (p *PostController) NewPostForm(ctx *gin.Context) {
	groups, err := p.store.ListGroups(ctx.Request.Context())
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	utils.Success(ctx, gin.H{"form": postForm{}, "groups": groups, "is_edit": false})
}

// Create stores a post by the current user and redirects to their profile.
func (p *PostController) Create(ctx *gin.Context) {
	userID, username, _ := middleware.CurrentUser(ctx)
	var form postForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Invalid(ctx, map[string]string{"__all__": "invalid request payload"}, form)
		return
	}
	image, ok := p.saveImage(ctx, &form)
	if !ok {
		return
	}

	post := &models.Post{Text: utils.Sanitize(form.Text), AuthorID: userID, GroupID: groupRef(form.Group), Image: image}
	if err := p.store.CreatePost(ctx.Request.Context(), post); err != nil {
		p.discardImage(image)
		fail(ctx, p.log, err, form)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(username))
}

// EditForm returns the post prefilled into a form. Only the author may edit;
// anyone else is sent back to the post.
func (p *PostController) EditForm(ctx *gin.Context) {
	post, ok := p.editable(ctx)
	if !ok {
		return
	}
	groups, err := p.store.ListGroups(ctx.Request.Context())
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	form := postForm{Text: post.Text, Image: post.Image}
	if post.GroupID != nil {
		form.Group = *post.GroupID
	}
	utils.Success(ctx, gin.H{"form": form, "post": post, "groups": groups, "is_edit": true})
}

// Edit updates text, group and optionally image, then redirects to the post.
func (p *PostController) Edit(ctx *gin.Context) {
	post, ok := p.editable(ctx)
	if !ok {
		return
	}
	var form postForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Invalid(ctx, map[string]string{"__all__": "invalid request payload"}, form)
		return
	}
	image, ok := p.saveImage(ctx, &form)
	if !ok {
		return
	}

	upd := store.PostUpdate{Text: utils.Sanitize(form.Text), GroupID: groupRef(form.Group)}
	if image != "" {
		upd.Image = &image
	}
	if _, err := p.store.UpdatePost(ctx.Request.Context(), post.ID, upd); err != nil {
		p.discardImage(image)
		fail(ctx, p.log, err, form)
		return
	}
	if image != "" && post.Image != "" {
		p.discardImage(post.Image)
	}
	ctx.Redirect(http.StatusFound, postURL(post.ID))
}

// editable loads the post named in the path and checks the current user wrote it.
func (p *PostController) editable(ctx *gin.Context) (*models.Post, bool) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, "post")
		return nil, false
	}
	post, err := p.store.PostByID(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, p.log, err, nil)
		return nil, false
	}
	userID, _, _ := middleware.CurrentUser(ctx)
	if post.AuthorID != userID {
		ctx.Redirect(http.StatusFound, postURL(post.ID))
		return nil, false
	}
	return post, true
}

// AddComment attaches a comment and redirects to the post. Empty comments
// are dropped silently.
func (p *PostController) AddComment(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, "post")
		return
	}
	userID, _, _ := middleware.CurrentUser(ctx)
	var form commentForm
	_ = ctx.ShouldBind(&form)

	comment := &models.Comment{PostID: id, AuthorID: userID, Text: utils.Sanitize(form.Text)}
	err := p.store.CreateComment(ctx.Request.Context(), comment)
	if _, invalid := store.IsValidation(err); err != nil && !invalid {
		fail(ctx, p.log, err, form)
		return
	}
	ctx.Redirect(http.StatusFound, postURL(id))
}

// Delete removes a post and its comments. Allowed for the author and admins.
func (p *PostController) Delete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, "post")
		return
	}
	post, err := p.store.PostByID(ctx.Request.Context(), id)
	if err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	userID, username, _ := middleware.CurrentUser(ctx)
	if post.AuthorID != userID && !p.isAdmin(username) {
		utils.Error(ctx, http.StatusForbidden, utils.CodeForbidden, "only the author can delete this post")
		return
	}
	if err := p.store.DeletePost(ctx.Request.Context(), id); err != nil {
		fail(ctx, p.log, err, nil)
		return
	}
	p.discardImage(post.Image)
	ctx.Redirect(http.StatusFound, profileURL(post.Author.Username))
}

// saveImage stores an optional "image" upload and records its reference on form.
func (p *PostController) saveImage(ctx *gin.Context, form *postForm) (string, bool) {
	header, err := ctx.FormFile("image")
	if err != nil {
		// no multipart body or no file attached
		return "", true
	}
	file, err := header.Open()
	if err != nil {
		utils.Invalid(ctx, map[string]string{"image": "upload a valid image"}, form)
		return "", false
	}
	defer file.Close()

	ref, err := p.media.Save(file)
	if err != nil {
		if errors.Is(err, utils.ErrNotImage) || errors.Is(err, utils.ErrTooLarge) {
			utils.Invalid(ctx, map[string]string{"image": err.Error()}, form)
			return "", false
		}
		fail(ctx, p.log, err, form)
		return "", false
	}
	form.Image = ref
	return ref, true
}

func (p *PostController) discardImage(ref string) {
	if ref == "" {
		return
	}
	if err := p.media.Remove(ref); err != nil {
		p.log.Warnw("remove post image", "ref", ref, "err", err)
	}
}

func groupRef(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
