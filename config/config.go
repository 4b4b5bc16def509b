package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Telegram   TelegramConfig
	Engine     EngineConfig
	Cloudinary CloudinaryConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type TelegramConfig struct {
	BotToken string
}

// EngineConfig is the immutable tuning for the interaction engine, built once
// at startup and handed to the engine at construction. Nothing re-reads the
// environment mid-operation.
type EngineConfig struct {
	RadiusMeters     float64
	LikeCooldown     time.Duration
	GeohashCooldown  time.Duration
	FreshnessWindow  time.Duration
	GeohashPrecision int
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using environment")
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			// loc=UTC so stored timestamps and cooldown arithmetic agree.
			DSN:             getEnv("DATABASE_DSN", "spotlike:spotlike@tcp(localhost:3306)/spotlike?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getEnvSeconds("JWT_ACCESS_EXPIRY_SECONDS", 24*time.Hour),
			RefreshExpiry: getEnvSeconds("JWT_REFRESH_EXPIRY_SECONDS", 168*time.Hour),
			Issuer:        "spotlike",
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Engine: EngineConfig{
			RadiusMeters:     getEnvFloat("RADIUS_METERS", 50),
			LikeCooldown:     getEnvSeconds("LIKE_COOLDOWN_SECONDS", 300*time.Second),
			GeohashCooldown:  getEnvSeconds("GEOHASH_COOLDOWN_SECONDS", 900*time.Second),
			FreshnessWindow:  getEnvSeconds("FRESHNESS_WINDOW_SECONDS", 300*time.Second),
			GeohashPrecision: getEnvInt("GEOHASH_PRECISION", 7),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[config] %s: not an integer, using %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[config] %s: not a number, using %v", key, fallback)
	}
	return fallback
}

// getEnvSeconds reads a whole number of seconds.
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		log.Printf("[config] %s: not a number of seconds, using %s", key, fallback)
	}
	return fallback
}
