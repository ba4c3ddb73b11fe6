package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token so it can be revoked on logout.
	ContextTokenKey = "token"
	// TokenCookie is the cookie name accepted in place of the Authorization header.
	TokenCookie = "token"
)

// Authenticate attaches the identity of a valid token to the context.
// Requests without a usable token continue anonymously.
func Authenticate(tokens *utils.TokenManager, blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			ctx.Next()
			return
		}
		if blacklist != nil && blacklist.IsRevoked(ctx.Request.Context(), tokenString) {
			ctx.Next()
			return
		}
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			ctx.Next()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := ctx.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// CurrentUser returns the authenticated identity, if any.
func CurrentUser(ctx *gin.Context) (uint, string, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, "", false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		return 0, "", false
	}
	return id, ctx.GetString(ContextUsernameKey), true
}

// LoginRequired redirects anonymous requests to loginURL with the original
// request URI in the next parameter. Nothing downstream runs.
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, _, ok := CurrentUser(ctx); ok {
			ctx.Next()
			return
		}
		ctx.Redirect(http.StatusFound, LoginRedirectURL(loginURL, ctx.Request.URL.RequestURI()))
		ctx.Abort()
	}
}

// LoginRedirectURL appends next=<requestURI> to loginURL.
func LoginRedirectURL(loginURL, requestURI string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(requestURI)
}

// AdminRequired rejects authenticated users that isAdmin does not accept.
// It must run after LoginRequired.
func AdminRequired(isAdmin func(username string) bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_, username, ok := CurrentUser(ctx)
		if !ok || !isAdmin(username) {
			utils.Error(ctx, http.StatusForbidden, utils.CodeForbidden, "admin privileges required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
