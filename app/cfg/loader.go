package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"postgres" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"postgres" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"textmind" description:"Database name"`

	// Authentication configuration
	SecretKey          string `long:"secret-key" env:"SECRET_KEY" description:"Secret key for signing access tokens (required)" required:"true"`
	AccessTokenExpires int    `long:"token-expires" env:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"30" description:"Access token lifetime in minutes"`

	// AI analyzer configuration
	HuggingFaceAPIKey string `long:"hf-api-key" env:"HUGGINGFACE_API_KEY" description:"Hugging Face API key for text analysis"`
	AnalyzerURL       string `long:"analyzer-url" env:"ANALYZER_URL" default:"https://router.huggingface.co/v1/chat/completions" description:"Chat completions endpoint for text analysis"`

	// Cache configuration
	CacheEnabled  bool   `long:"cache-enabled" env:"CACHE_ENABLED" description:"Enable Redis response caching"`
	RedisAddr     string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address (host:port)"`
	RedisPassword string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password (optional)"`
	CacheTTL      int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Cache entry TTL in seconds"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for content analysis"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Pending analysis sweep interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"TextMind/1.0" description:"User agent string for outgoing HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:             raw.DBHost,
		DBPort:             raw.DBPort,
		DBUser:             raw.DBUser,
		DBPassword:         raw.DBPassword,
		DBName:             raw.DBName,
		SecretKey:          raw.SecretKey,
		AccessTokenExpires: raw.AccessTokenExpires,
		HuggingFaceAPIKey:  raw.HuggingFaceAPIKey,
		AnalyzerURL:        raw.AnalyzerURL,
		CacheEnabled:       raw.CacheEnabled,
		RedisAddr:          raw.RedisAddr,
		RedisPassword:      raw.RedisPassword,
		CacheTTL:           raw.CacheTTL,
		Port:               raw.Port,
		WorkerCount:        raw.WorkerCount,
		SchedulerInterval:  raw.SchedulerInterval,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
