package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	Timezone        string
	DBPath          string
	InventorySource string // static|db|remote
	APIURL          string
	APIKey          string `json:"-"`
	APITimeout      time.Duration
	SeedOnStart     bool
	LogLevel        string
	LogFormat       string
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("[cfg] no .env file loaded", "err", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}

	source := get("INVENTORY_SOURCE", "")
	if source == "" {
		source = "static"
		if strings.EqualFold(os.Getenv("USE_MOCK"), "false") {
			source = "remote"
		}
	}

	timeout, err := time.ParseDuration(get("INVENTORY_API_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	seed, err := strconv.ParseBool(get("SEED_ON_START", "true"))
	if err != nil {
		seed = true
	}

	return AppConfig{
		Port:            get("PORT", "8080"),
		Timezone:        get("TZ", "Asia/Tokyo"),
		DBPath:          get("DB_PATH", "reien.db"),
		InventorySource: strings.ToLower(source),
		APIURL:          strings.TrimRight(get("INVENTORY_API_URL", ""), "/"),
		APIKey:          get("INVENTORY_API_KEY", ""),
		APITimeout:      timeout,
		SeedOnStart:     seed,
		LogLevel:        get("LOG_LEVEL", "info"),
		LogFormat:       get("LOG_FORMAT", "text"),
	}
}

func (c AppConfig) Validate() error {
	switch c.InventorySource {
	case "static", "db":
	case "remote":
		if c.APIURL == "" {
			return fmt.Errorf("INVENTORY_SOURCE=remote requires INVENTORY_API_URL")
		}
	default:
		return fmt.Errorf("INVENTORY_SOURCE must be static, db or remote (got %q)", c.InventorySource)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is empty")
	}
	return nil
}

// LogValue keeps the API key out of log output.
func (c AppConfig) LogValue() slog.Value {
	key := ""
	if c.APIKey != "" {
		key = "***"
	}
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("tz", c.Timezone),
		slog.String("db_path", c.DBPath),
		slog.String("source", c.InventorySource),
		slog.String("api_url", c.APIURL),
		slog.String("api_key", key),
		slog.Duration("api_timeout", c.APITimeout),
		slog.Bool("seed_on_start", c.SeedOnStart),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
	)
}
