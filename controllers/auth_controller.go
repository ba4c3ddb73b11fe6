package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// AuthController issues and revokes access tokens.
type AuthController struct {
	store     *store.Store
	tokens    *utils.TokenManager
	blacklist *utils.TokenBlacklist
	isAdmin   func(username string) bool
	log       *zap.SugaredLogger
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(s *store.Store, tokens *utils.TokenManager, blacklist *utils.TokenBlacklist,
	isAdmin func(string) bool, log *zap.SugaredLogger) *AuthController {
	return &AuthController{store: s, tokens: tokens, blacklist: blacklist, isAdmin: isAdmin, log: log}
}

type credentials struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password,omitempty"`
	Next     string `form:"next" json:"next,omitempty"`
}

// LoginPage describes the login form and echoes the pending next location.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"fields": []string{"username", "password"},
		"next":   safeNext(ctx.Query("next")),
	})
}

// Signup registers a user and logs them in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Invalid(ctx, map[string]string{"__all__": "invalid request payload"}, nil)
		return
	}
	echo := credentials{Username: req.Username}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrWeakPassword) {
			utils.Invalid(ctx, map[string]string{"password": err.Error()}, echo)
			return
		}
		fail(ctx, a.log, err, echo)
		return
	}
	user := &models.User{Username: req.Username, PasswordHash: hash}
	if err := a.store.CreateUser(ctx.Request.Context(), user); err != nil {
		fail(ctx, a.log, err, echo)
		return
	}
	a.issue(ctx, user, http.StatusCreated)
}

// Login verifies credentials. With a safe next location the client is
// redirected there; otherwise the token is returned.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Invalid(ctx, map[string]string{"__all__": "invalid request payload"}, nil)
		return
	}

	user, err := a.store.UserByUsername(ctx.Request.Context(), req.Username)
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			a.log.Errorw("login lookup failed", "err", err)
		}
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid username or password")
		return
	}

	next := safeNext(req.Next)
	if next == "" {
		next = safeNext(ctx.Query("next"))
	}
	if next != "" {
		if _, ok := a.setToken(ctx, user); ok {
			ctx.Redirect(http.StatusFound, next)
		}
		return
	}
	a.issue(ctx, user, http.StatusOK)
}

// Logout revokes the current token until it expires.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := a.tokens.Parse(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
		return
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := a.blacklist.Revoke(ctx.Request.Context(), token, expiresAt); err != nil {
		a.log.Warnw("token revoke failed", "err", err)
	}
	ctx.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

func (a *AuthController) issue(ctx *gin.Context, user *models.User, status int) {
	token, ok := a.setToken(ctx, user)
	if !ok {
		return
	}
	utils.Respond(ctx, status, utils.CodeOK, "success", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"is_admin": a.isAdmin(user.Username),
		},
	})
}

// setToken issues a token and stores it in the token cookie.
func (a *AuthController) setToken(ctx *gin.Context, user *models.User) (string, bool) {
	token, expiresAt, err := a.tokens.Generate(user.ID, user.Username)
	if err != nil {
		fail(ctx, a.log, err, nil)
		return "", false
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	ctx.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)
	return token, true
}

// safeNext only accepts local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
