package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig holds everything the tracker service reads from the environment
type AppConfig struct {
	Environment  string
	LogLevel     string
	Port         string
	AutoMigrate  bool
	DBJWTSecret  string
	KafkaBroker  string
	ChangesTopic string

	Database *DatabaseConfig
	Redis    *RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads .env when present and builds the configuration from the environment
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	return &AppConfig{
		Environment:  getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("TRACKER_SERVICE_PORT", "8002"),
		AutoMigrate:  getEnvBool("AUTO_MIGRATE", true),
		DBJWTSecret:  os.Getenv("DB_JWT_SECRET"),
		KafkaBroker:  os.Getenv("KAFKA_BROKER"),
		ChangesTopic: getEnv("KAFKA_CHANGES_TOPIC", "device-tracking-changes"),
		Database:     GetDatabaseConfig(),
		Redis: &RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

// IsProduction reports whether the service runs with production settings
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ConfigureLogging applies level and formatter to the standard logrus logger
func ConfigureLogging(c *AppConfig) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}
