package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	DBDSN           string
	MediaDir        string
	LogFile         string
	TemplatesDir    string
	CookieSecure    bool
	RedisAddr       string
	CatalogCacheTTL time.Duration
	LowStock        int
}

func Load() Config {
	cfg := Config{
		Port:            env("PORT", "8080"),
		DBDSN:           env("DB_DSN", "chiikawashop.db"), // sqlite file in project root
		MediaDir:        env("MEDIA_DIR", "./web/media"),
		LogFile:         env("LOG_FILE", "./chiikawashop.log"),
		TemplatesDir:    env("TEMPLATES_DIR", "./web/templates"),
		CookieSecure:    envBool("COOKIE_SECURE", false),
		RedisAddr:       os.Getenv("REDIS_ADDR"), // empty disables the catalog cache
		CatalogCacheTTL: envDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		LowStock:        envInt("LOW_STOCK_THRESHOLD", 5),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s REDIS_ADDR=%q LOW_STOCK_THRESHOLD=%d",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.RedisAddr, cfg.LowStock)
	return cfg
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
