package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Moderator identity (tokens are issued by the external identity service;
	// we only verify them)
	JWTSecret    string
	ModeratorIDs string

	// Detector ingestion
	DetectorToken string

	// Admin
	AdminToken string

	// Quality assessment thresholds (a category score below its threshold
	// emits a detector signal)
	QualityMinCompleteness int
	QualityMinImages       int
	QualityMinPrice        int
	QualityMinContent      int

	// Bulk transitions
	BulkConcurrency int

	// Server
	Port        string
	CORSOrigins string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "moderation_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		ModeratorIDs: getEnv("MODERATOR_USER_IDS", ""),

		DetectorToken: getEnv("DETECTOR_TOKEN", ""),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),

		QualityMinCompleteness: getEnvInt("QUALITY_MIN_COMPLETENESS", 60),
		QualityMinImages:       getEnvInt("QUALITY_MIN_IMAGES", 60),
		QualityMinPrice:        getEnvInt("QUALITY_MIN_PRICE", 60),
		QualityMinContent:      getEnvInt("QUALITY_MIN_CONTENT", 60),

		BulkConcurrency: getEnvInt("BULK_CONCURRENCY", 8),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
