package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration, read once at startup.
type Config struct {
	Port string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	FrontendOrigins []string

	UploadRoot string
	CDNBaseURL string

	// RankingShuffle scrambles relevance-sorted browse/recommend results.
	// Kept toggleable pending product clarification.
	RankingShuffle bool
}

func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("$JWT_SECRET must be set")
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("$DB_HOST must be set")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DBUser:          getEnv("DB_USER", "afterfrag"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          dbHost,
		DBName:          getEnv("DB_NAME", "afterfrag"),
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		JWTSecret:       secret,
		FrontendOrigins: splitNonEmpty(getEnv("FE_ORIGINS", "https://afterfrag.com;https://app.afterfrag.com"), ";"),
		UploadRoot:      getEnv("UPLOAD_ROOT", "uploads"),
		CDNBaseURL:      getEnv("CDN_BASE_URL", "https://app.afterfrag.com/cdn"),
		RankingShuffle:  getEnvBool("RANKING_SHUFFLE", true),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitNonEmpty(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
