package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	Timezone           string
	DatasetPath        string
	DatasetMaxUploadMB int
	ActivityDSN        string
	RedisURL           string
	ViewCacheTTL       time.Duration
	NATSURL            string
	ChangesChannel     string
	JWTSecret          string
	SeedEnabled        bool
	SeedToken          string
	NoteAuthor         string
	RateLimitMax       int
	RateLimitWindow    time.Duration
	PlaceholderSeed    int64
	AllowOrigins       string
	AccessLog          bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location returns the configured timezone, falling back to the host's local
// zone when it cannot be loaded.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("RAYAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Rayan CRM API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "Asia/Tehran")
	v.SetDefault("dataset.path", "data/db.json")
	v.SetDefault("dataset.max_upload_mb", 10)
	v.SetDefault("view.cache_ttl", "30s")
	v.SetDefault("changes.channel", "rayan:changes")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("notes.author", "علی رضایی")
	v.SetDefault("rate_limit.max", 120)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("placeholders.seed", 0)
	v.SetDefault("http.allow_origins", "*")
	v.SetDefault("http.access_log", false)

	ttl, err := parseDuration(v.GetString("view.cache_ttl"), 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid view cache ttl: %w", err)
	}

	window, err := parseDuration(v.GetString("rate_limit.window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		Timezone:           v.GetString("app.timezone"),
		DatasetPath:        v.GetString("dataset.path"),
		DatasetMaxUploadMB: v.GetInt("dataset.max_upload_mb"),
		ActivityDSN:        v.GetString("activity.database_url"),
		RedisURL:           v.GetString("redis.url"),
		ViewCacheTTL:       ttl,
		NATSURL:            v.GetString("nats.url"),
		ChangesChannel:     v.GetString("changes.channel"),
		JWTSecret:          v.GetString("jwt.secret"),
		SeedEnabled:        v.GetBool("seed.enabled"),
		SeedToken:          v.GetString("seed.token"),
		NoteAuthor:         strings.TrimSpace(v.GetString("notes.author")),
		RateLimitMax:       v.GetInt("rate_limit.max"),
		RateLimitWindow:    window,
		PlaceholderSeed:    v.GetInt64("placeholders.seed"),
		AllowOrigins:       v.GetString("http.allow_origins"),
		AccessLog:          v.GetBool("http.access_log"),
	}

	if cfg.DatasetPath == "" {
		return Config{}, fmt.Errorf("dataset path must be provided")
	}

	if cfg.SeedEnabled && strings.TrimSpace(cfg.SeedToken) == "" {
		return Config{}, fmt.Errorf("seed token must be provided when seeding is enabled")
	}

	if cfg.DatasetMaxUploadMB <= 0 {
		cfg.DatasetMaxUploadMB = 10
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 120
	}

	if cfg.PlaceholderSeed == 0 {
		cfg.PlaceholderSeed = time.Now().UnixNano()
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
