package config

import (
	"os"
	"strconv"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"

	"github.com/joho/godotenv"
)

const (
	TokenBackendPostgres = "postgres"
	TokenBackendMemory   = "memory"
)

type Config struct {
	AppPort       string
	TokenBackend  string
	DatabaseURL   string
	DBMaxConns    int32
	JWTSecret     string
	EscrowAccount string
	DevMode       bool
	AllowedOrigin string

	// Games
	MaxGameDuration time.Duration

	// Redis (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration

	// Logging
	LogLevel string
	LogJSON  bool
	LogFile  string
}

// Load reads configuration from the environment, loading .env first if
// present. Missing required values are fatal.
func Load() *Config {
	_ = godotenv.Load()

	backend := getString("TOKEN_BACKEND", TokenBackendPostgres)
	if backend != TokenBackendPostgres && backend != TokenBackendMemory {
		logger.Fatal("TOKEN_BACKEND must be postgres or memory", "value", backend)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if backend == TokenBackendPostgres && dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	return &Config{
		AppPort:       getString("APP_PORT", "8080"),
		TokenBackend:  backend,
		DatabaseURL:   dbURL,
		DBMaxConns:    int32(getInt("DB_MAX_CONNS", 0)),
		JWTSecret:     jwtSecret,
		EscrowAccount: getString("ESCROW_ACCOUNT", "rps-escrow"),
		DevMode:       os.Getenv("DEV_MODE") == "true",
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		MaxGameDuration: time.Duration(getPositiveInt("MAX_GAME_DURATION", 86400)) * time.Second,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		APIRateLimit:   getPositiveInt("API_RATE_LIMIT", 120),
		APIRateWindow:  time.Duration(getPositiveInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		GameRateLimit:  getPositiveInt("GAME_RATE_LIMIT", 60),
		GameRateWindow: time.Duration(getPositiveInt("GAME_RATE_WINDOW", 60)) * time.Second,

		LogLevel: getString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getPositiveInt falls back to def for unset, malformed or non-positive values.
func getPositiveInt(key string, def int) int {
	if n := getInt(key, def); n > 0 {
		return n
	}
	return def
}
