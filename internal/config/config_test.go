package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"APP_NAME":           "SkillBridge",
		"APP_ENV":            "test",
		"HTTP_PORT":          "8080",
		"DB_HOST":            "localhost",
		"DB_NAME":            "skillbridge",
		"DB_USER":            "postgres",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.Database.DBPort)
	assert.Equal(t, "disable", cfg.Database.DBSSLMode)
	assert.True(t, cfg.Database.RunMigrations)
	assert.False(t, cfg.Database.RunSeeders)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "https://api.elevenlabs.io", cfg.AI.ElevenLabsBaseURL)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "APP_NAME")
	delete(env, "JWT_ACCESS_SECRET")

	_, err := load(envFrom(env))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestLoad_InvalidValues(t *testing.T) {
	env := baseEnv()
	env["REDIS_TTL"] = "ten minutes"
	env["DB_RUN_MIGRATIONS"] = "maybe"

	_, err := load(envFrom(env))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidEnv))
	assert.Contains(t, err.Error(), "REDIS_TTL")
	assert.Contains(t, err.Error(), "DB_RUN_MIGRATIONS")
}

func TestLoad_CORSOrigins(t *testing.T) {
	env := baseEnv()
	env["CORS_ORIGINS"] = "https://a.example, ,https://b.example"

	cfg, err := load(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
}
