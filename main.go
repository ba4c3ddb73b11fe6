package main

import (
	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/pagecache"
	"github.com/cppla/yatube/routes"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open database: %v", err)
	}

	deps := routes.Deps{
		Config: cfg,
		Store:  store.New(db),
		Media:  utils.NewLocalMediaStore(cfg.MediaRoot, cfg.MediaMaxMB),
		Tokens: utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		Logger: utils.Logger,
	}

	rc, err := utils.NewRedis(cfg)
	if err != nil {
		utils.Sugar.Warnf("redis unavailable, using in-memory page cache and token blacklist: %v", err)
		deps.Pages = pagecache.NewMemoryStore(nil)
	} else {
		defer rc.Close()
		deps.Pages = pagecache.NewRedisStore(rc, utils.Sugar)
	}
	deps.Blacklist = utils.NewTokenBlacklist(rc)

	if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
		deps.AccessLog = gl
	} else {
		utils.Sugar.Warnf("gin access log unavailable, using application log: %v", err)
	}

	r := routes.SetupRouter(deps)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
