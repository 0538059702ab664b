package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	APIBase         string
	APIToken        string
	APIRequestRPS   int
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	RefreshInterval time.Duration
	RefreshWorkers  int
	LocationConsent bool
	LocationLat     float64
	LocationLng     float64
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		APIBase:         env("API_BASE_URL", "https://api.staysync.example/api/v1"),
		APIToken:        env("API_TOKEN", ""),
		APIRequestRPS:   atoi("API_REQUEST_RPS", 10),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		RefreshInterval: time.Duration(atoi("REFRESH_INTERVAL_SECONDS", 300)) * time.Second,
		RefreshWorkers:  atoi("REFRESH_WORKERS", 4),
		LocationConsent: env("LOCATION_CONSENT", "") == "true",
		LocationLat:     atof("LOCATION_LAT", 0),
		LocationLng:     atof("LOCATION_LNG", 0),
	}
	if c.APIToken == "" {
		log.Warn().Msg("API_TOKEN is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
