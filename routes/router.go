package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/controllers"
	"github.com/cppla/yatube/feed"
	"github.com/cppla/yatube/follow"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/pagecache"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// Deps are the services the router hands to controllers.
type Deps struct {
	Config    config.AppConfig
	Store     *store.Store
	Pages     pagecache.Store
	Media     utils.MediaStore
	Tokens    *utils.TokenManager
	Blacklist *utils.TokenBlacklist
	// Logger receives application logs; AccessLog receives one line per request.
	Logger    *zap.Logger
	AccessLog *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.AccessLog == nil {
		d.AccessLog = d.Logger
	}
	log := d.Logger.Sugar()

	r := gin.New()
	r.Use(utils.Ginzap(d.AccessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(d.AccessLog, false))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Authenticate(d.Tokens, d.Blacklist))

	r.Static("/media", cfg.MediaRoot)

	r.GET("/health", func(ctx *gin.Context) {
		sqlDB, err := d.Store.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.Request.Context())
		}
		if err != nil {
			utils.Error(ctx, http.StatusServiceUnavailable, utils.CodeInternal, "database unavailable")
			return
		}
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	follows := follow.NewGraph(d.Store)
	feeds := feed.NewAssembler(d.Store, follows)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	login := middleware.LoginRequired(cfg.LoginURL)

	postController := controllers.NewPostController(d.Store, feeds, follows, d.Media, cfg.PageSize, cfg.IsAdmin, log)
	followController := controllers.NewFollowController(d.Store, follows, log)
	authController := controllers.NewAuthController(d.Store, d.Tokens, d.Blacklist, cfg.IsAdmin, log)
	groupController := controllers.NewGroupController(d.Store, log)
	cacheController := controllers.NewCacheController(d.Pages, log)
	statsController := controllers.NewStatsController(d.Store, log)

	r.GET("/", middleware.CachePage(d.Pages, cfg.PageCacheTTL(), log), postController.Index)
	r.GET("/group/:slug", postController.GroupPosts)
	r.GET("/groups", groupController.List)
	r.GET("/stats", statsController.GetStats)

	r.GET("/profile/:username", postController.Profile)
	r.POST("/profile/:username/follow", login, limiter.Middleware(), followController.Follow)
	r.POST("/profile/:username/unfollow", login, limiter.Middleware(), followController.Unfollow)
	r.GET("/follow", login, postController.FollowIndex)

	r.GET("/create", login, postController.NewPostForm)
	r.POST("/create", login, limiter.Middleware(), postController.Create)

	postsGroup := r.Group("/posts/:id")
	postsGroup.GET("", postController.Detail)
	postsGroup.GET("/edit", login, postController.EditForm)
	postsGroup.POST("/edit", login, limiter.Middleware(), postController.Edit)
	postsGroup.POST("/comment", login, limiter.Middleware(), postController.AddComment)
	postsGroup.POST("/delete", login, limiter.Middleware(), postController.Delete)

	authGroup := r.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authGroup.GET("/login", authController.LoginPage)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/logout", login, authController.Logout)

	admin := r.Group("/admin")
	admin.Use(login, middleware.AdminRequired(cfg.IsAdmin))
	admin.POST("/groups", groupController.Create)
	admin.DELETE("/groups/:slug", groupController.Delete)
	admin.POST("/cache/clear", cacheController.Clear)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "route not found")
	})

	return r
}
