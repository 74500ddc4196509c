package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Board   BoardConfig
	Log     LogConfig
}

type AppConfig struct {
	Environment  string
	WindowWidth  int
	WindowHeight int
}

type BackendConfig struct {
	BaseURL          string
	RequestTimeout   time.Duration
	DiscoveryTimeout time.Duration
}

type BoardConfig struct {
	ResultStagger   time.Duration
	ShowAssignments bool
}

type LogConfig struct {
	Level    string
	FilePath string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:  getEnv("GO_ENV", "development"),
			WindowWidth:  getEnvAsInt("MATHBOARD_WINDOW_WIDTH", 1280),
			WindowHeight: getEnvAsInt("MATHBOARD_WINDOW_HEIGHT", 800),
		},
		Backend: BackendConfig{
			BaseURL:          strings.TrimSuffix(getEnv("MATHBOARD_API_URL", ""), "/"),
			RequestTimeout:   getEnvAsDuration("MATHBOARD_REQUEST_TIMEOUT", 30*time.Second),
			DiscoveryTimeout: getEnvAsDuration("MATHBOARD_DISCOVERY_TIMEOUT", 2*time.Second),
		},
		Board: BoardConfig{
			ResultStagger:   getEnvAsDuration("MATHBOARD_RESULT_STAGGER", time.Second),
			ShowAssignments: getEnvAsBool("MATHBOARD_SHOW_ASSIGNMENTS", true),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE_PATH", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1500ms") or plain milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
