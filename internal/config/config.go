package config

import (
	"os"
	"strconv"

	"github.com/yukikurage/project-tracker/internal/constants"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	RedisHost          string
	RedisPort          string
	SessionSecret      string
	ResetTokenSecret   string
	ResetTokenTTLSecs  int
	GinMode            string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESEmailSource     string
	AppBaseURL         string
}

func Load() *Config {
	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "tracker"),
		DBPassword:         getEnv("DB_PASSWORD", "trackerpassword"),
		DBName:             getEnv("DB_NAME", "project_tracker"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		SessionSecret:      getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		ResetTokenSecret:   getEnv("RESET_TOKEN_SECRET", "default-reset-secret-change-me"),
		ResetTokenTTLSecs:  getEnvInt("RESET_TOKEN_TTL_SECONDS", constants.DefaultResetTokenTTLSeconds),
		GinMode:            getEnv("GIN_MODE", "debug"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SESEmailSource:     getEnv("SES_EMAIL_SOURCE", ""),
		AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
