// Package config loads the server configuration from a .env file and
// environment variables, with sensible defaults for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends selectable via the STORE variable.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Port        int
	Store       string // "sqlite" (persistent) or "memory" (offline test double)
	DBPath      string // SQLite database file, ignored for the memory store
	JWTSecret   string
	JWTTTLHours int
	StorageDir  string // root directory for uploaded recipe photos
	RedisURL    string // optional; empty disables the category cache
}

// Load reads configuration, preferring a .env file when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnvInt("PORT", 8080),
		Store:       getEnv("STORE", StoreSQLite),
		DBPath:      getEnv("DB_PATH", "data/receitas.db"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		StorageDir:  getEnv("STORAGE_DIR", "storage"),
		RedisURL:    getEnv("REDIS_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s value %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
