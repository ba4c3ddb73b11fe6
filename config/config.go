package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	TokenTTLHours      int
	RateLimitPerMinute int
	AllowedOrigins     []string
	AdminUsernames     []string
	// Where anonymous users are sent for login-gated pages
	LoginURL string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: mysql, postgres or sqlite
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis backs the page cache and the token blacklist
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Feed configuration
	PageSize         int
	PageCacheSeconds int
	// Uploaded post images
	MediaRoot  string
	MediaMaxMB int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// PageCacheTTL is the lifetime of a cached global feed page.
func (c AppConfig) PageCacheTTL() time.Duration {
	return time.Duration(c.PageCacheSeconds) * time.Second
}

// TokenTTL is the lifetime of issued access tokens.
func (c AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// IsAdmin reports whether username is configured as an administrator.
func (c AppConfig) IsAdmin(username string) bool {
	if username == "" {
		return false
	}
	for _, u := range c.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), username) {
			return true
		}
	}
	return false
}

// fileConfig mirrors the grouped layout of config/config.json.
type fileConfig struct {
	App struct {
		AppPort            string
		JWTSecret          string
		TokenTTLHours      int
		RateLimitPerMinute int
		AllowedOrigins     []string
		AdminUsernames     []string
		LoginURL           string
	} `json:"app"`
	Gin struct {
		Mode    string
		LogPath string
	} `json:"gin"`
	Database struct {
		Driver      string
		DatabaseURI string
		DBHost      string
		DBPort      string
		DBUser      string
		DBPassword  string
		DBName      string
	} `json:"database"`
	Redis struct {
		RedisHost     string
		RedisPort     int
		RedisDB       int
		RedisPassword string
	} `json:"redis"`
	Feed struct {
		PageSize         int
		PageCacheSeconds int
	} `json:"feed"`
	Media struct {
		Root  string
		MaxMB int
	} `json:"media"`
	Log struct {
		Level      string
		Path       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	} `json:"log"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	path := getEnv("CONFIG_PATH", filepath.Join("config", "config.json"))
	c, err := LoadFrom(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// LoadFrom builds a configuration with precedence
// JSON file -> defaults -> .env / environment overrides.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&c)

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()
	if err := applyEnvOverrides(&c); err != nil {
		return c, err
	}

	if c.JWTSecret == "" {
		return c, errors.New("JWT_SECRET must be set in config or environment")
	}
	return c, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.TokenTTLHours = fc.App.TokenTTLHours
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute
	out.AllowedOrigins = fc.App.AllowedOrigins
	out.AdminUsernames = fc.App.AdminUsernames
	out.LoginURL = fc.App.LoginURL

	out.GinMode = fc.Gin.Mode
	out.GinPath = fc.Gin.LogPath

	out.DBDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName

	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword

	out.PageSize = fc.Feed.PageSize
	out.PageCacheSeconds = fc.Feed.PageCacheSeconds

	out.MediaRoot = fc.Media.Root
	out.MediaMaxMB = fc.Media.MaxMB

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.TokenTTLHours == 0 {
		c.TokenTTLHours = 72
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.LoginURL == "" {
		c.LoginURL = "/auth/login"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		switch c.DBDriver {
		case "postgres":
			c.DBPort = "5432"
		default:
			c.DBPort = "3306"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "yatube"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.PageCacheSeconds == 0 {
		c.PageCacheSeconds = 20
	}
	if c.MediaRoot == "" {
		c.MediaRoot = "media"
	}
	if c.MediaMaxMB == 0 {
		c.MediaMaxMB = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	strs := map[string]*string{
		"APP_PORT":       &c.AppPort,
		"JWT_SECRET":     &c.JWTSecret,
		"LOGIN_URL":      &c.LoginURL,
		"GIN_MODE":       &c.GinMode,
		"GIN_PATH":       &c.GinPath,
		"DB_DRIVER":      &c.DBDriver,
		"DATABASE_URI":   &c.DatabaseURI,
		"DB_HOST":        &c.DBHost,
		"DB_PORT":        &c.DBPort,
		"DB_USER":        &c.DBUser,
		"DB_PASSWORD":    &c.DBPassword,
		"DB_NAME":        &c.DBName,
		"REDIS_HOST":     &c.RedisHost,
		"REDIS_PASSWORD": &c.RedisPassword,
		"MEDIA_ROOT":     &c.MediaRoot,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_PATH":       &c.LogPath,
	}
	for key, dst := range strs {
		if v := getEnv(key, ""); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TOKEN_TTL_HOURS":       &c.TokenTTLHours,
		"RATE_LIMIT_PER_MINUTE": &c.RateLimitPerMinute,
		"REDIS_PORT":            &c.RedisPort,
		"REDIS_DB":              &c.RedisDB,
		"PAGE_SIZE":             &c.PageSize,
		"PAGE_CACHE_SECONDS":    &c.PageCacheSeconds,
		"MEDIA_MAX_MB":          &c.MediaMaxMB,
		"LOG_MAX_SIZE_MB":       &c.LogMaxSizeMB,
		"LOG_MAX_BACKUPS":       &c.LogMaxBackups,
		"LOG_MAX_AGE_DAYS":      &c.LogMaxAgeDays,
	}
	for key, dst := range ints {
		v := getEnv(key, "")
		if v == "" {
			continue
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer value %s=%s: %w", key, v, err)
		}
		*dst = i
	}

	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	c.AdminUsernames = readListEnv("ADMIN_USERNAMES", c.AdminUsernames)
	return nil
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
