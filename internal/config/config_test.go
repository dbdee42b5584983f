package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "random", cfg.Secrets.Mode)
	assert.Equal(t, "unicode", cfg.Chat.EmojiStyle)
	assert.Equal(t, []string{"w.", "w!", "/"}, cfg.Chat.Prefixes)
	assert.Equal(t, 14, cfg.Owner.TokenDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordle.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "9000"
log_level = "debug"

[secrets]
mode = "daily"
daily_salt = "pepper"

[chat]
emoji_style = "shortcode"
prefixes = ["!"]

[telegram]
owner_ids = [1, 2]
`), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "daily", cfg.Secrets.Mode)
	assert.Equal(t, "pepper", cfg.Secrets.DailySalt)
	assert.Equal(t, "shortcode", cfg.Chat.EmojiStyle)
	assert.Equal(t, []string{"!"}, cfg.Chat.Prefixes)
	assert.Equal(t, []int64{1, 2}, cfg.Telegram.OwnerIDs)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
}

func TestLoadEnvLists(t *testing.T) {
	t.Setenv("OWNER_IDS", "10, 20")
	t.Setenv("COMMAND_PREFIXES", "w., ?")
	t.Setenv("ALLOW_PRIVATE", "true")
	t.Setenv("JWT_EXPIRES_DAYS", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, cfg.Telegram.OwnerIDs)
	assert.Equal(t, []string{"w.", "?"}, cfg.Chat.Prefixes)
	assert.True(t, cfg.Telegram.AllowPrivate)
	assert.Equal(t, 3, cfg.Owner.TokenDays)
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("OWNER_IDS", "abc")
	_, err := Load("")
	assert.ErrorContains(t, err, "OWNER_IDS")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Secrets.Mode = "weekly" }, "unknown secret mode"},
		{"daily without salt", func(c *Config) { c.Secrets.Mode = "daily" }, "daily_salt"},
		{"bad emoji", func(c *Config) { c.Chat.EmojiStyle = "ascii" }, "emoji style"},
		{"no prefixes", func(c *Config) { c.Chat.Prefixes = nil }, "prefix"},
		{"password without secret", func(c *Config) { c.Owner.PasswordHash = "$2a$10$x" }, "jwt_secret"},
		{"empty port", func(c *Config) { c.Port = " " }, "port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}
