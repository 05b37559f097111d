package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CSE_ID", "")
	t.Setenv("AFFILIATE_TAG", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, DefaultAffiliateTag, cfg.AffiliateTag)
	assert.False(t, cfg.SearchConfigured())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PORT", "70000")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9999")
	t.Setenv("GOOGLE_API_KEY", "search-key")
	t.Setenv("GOOGLE_CSE_ID", "cse-id")
	t.Setenv("AFFILIATE_TAG", "custom-tag-20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "custom-tag-20", cfg.AffiliateTag)
	assert.True(t, cfg.SearchConfigured())
}

func TestSearchConfigured_RequiresBothCredentials(t *testing.T) {
	cfg := &Config{GoogleAPIKey: "key"}
	assert.False(t, cfg.SearchConfigured())

	cfg = &Config{GoogleCSEID: "cse"}
	assert.False(t, cfg.SearchConfigured())

	cfg = &Config{GoogleAPIKey: "key", GoogleCSEID: "cse"}
	assert.True(t, cfg.SearchConfigured())
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours)
}

func TestNewJWTConfig_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRATION_HOURS", "abc")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}

func TestAdminConfig_PasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	cfg := &AdminConfig{PasswordHash: hash}
	assert.True(t, cfg.VerifyPassword("correct horse battery staple"))
	assert.False(t, cfg.VerifyPassword("wrong"))
	assert.False(t, cfg.VerifyPassword(""))
}

func TestNewAdminConfig_RequiresHash(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	_, err := NewAdminConfig()
	assert.Error(t, err)

	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := NewAdminConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.PasswordHash)
}
