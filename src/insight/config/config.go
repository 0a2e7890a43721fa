package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/eipsight/eipsight/src/insight/data"
	"gorm.io/gorm"
)

type Config struct {
	Port               string
	RedisURL           string
	GithubAPI          string
	GithubToken        string
	PollInterval       int // seconds
	StallThresholdDays int
	TrendingWindowDays int
	AllowedOrigins     []string
}

// MySQLDSN is resolved from the environment alone; the database has to be up
// before the settings table can be read.
func MySQLDSN() string {
	return getenv("MYSQL_DSN", "eipsight:eipsight@tcp(127.0.0.1:3306)/eipsight")
}

func Load(db *gorm.DB) Config {
	// Load settings from database
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	// Get values from database with env fallbacks
	githubAPI := data.GetSetting("github_api")
	if githubAPI == "" {
		githubAPI = os.Getenv("GITHUB_API")
	}

	githubToken := data.GetSetting("github_token")
	if githubToken == "" {
		githubToken = os.Getenv("GITHUB_TOKEN")
	}

	origins := data.GetSetting("allowed_origins")
	if origins == "" {
		origins = getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	}

	return Config{
		Port:               getenv("PORT", "8080"),
		RedisURL:           getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		GithubAPI:          githubAPI,
		GithubToken:        githubToken,
		PollInterval:       settingInt("poll_interval_seconds", "POLL_INTERVAL", 300),
		StallThresholdDays: settingInt("stall_threshold_days", "STALL_THRESHOLD_DAYS", 60),
		TrendingWindowDays: settingInt("trending_window_days", "TRENDING_WINDOW_DAYS", 7),
		AllowedOrigins:     strings.Split(origins, ","),
	}
}

func settingInt(name, envKey string, def int) int {
	raw := data.GetSetting(name)
	if raw == "" {
		raw = os.Getenv(envKey)
	}
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s value %q, using %d", name, raw, def)
		return def
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
