package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SERVER_HOST", "ACCESS_TOKEN_TTL_MINUTES", "CORS_ORIGINS", "STATIC_DIR"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "frontend/dist", cfg.StaticDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.CookieSecure)
}

func TestValidateReportsMissingSecrets(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	require.NoError(t, Config{JWTSecret: "s", GeminiAPIKey: "k"}.Validate())
}

func TestDSNIncludesSettings(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
