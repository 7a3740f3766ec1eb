package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("STORAGE_DIR", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "data/receitas.db", cfg.DBPath)
	assert.Equal(t, 24, cfg.JWTTTLHours)
	assert.Equal(t, "storage", cfg.StorageDir)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE", StoreMemory)
	t.Setenv("JWT_SECRET", "segredo-de-teste-0123456789")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "segredo-de-teste-0123456789", cfg.JWTSecret)
	assert.Equal(t, 2, cfg.JWTTTLHours)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadBadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
}
